package diagram

import (
	"context"
	"fmt"

	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/observability"
)

// Renderer consumes a sealed diagram. It is called at most once per diagram,
// and only when construction succeeded.
type Renderer interface {
	Render(ctx context.Context, d *Diagram) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, d *Diagram) error

// Render calls f(ctx, d).
func (f RendererFunc) Render(ctx context.Context, d *Diagram) error { return f(ctx, d) }

// Option configures a Builder.
type Option func(*config)

type config struct {
	direction Direction
	filename  string
	catalog   catalog.Catalog
}

// WithDirection sets the layout direction (default LR).
func WithDirection(d Direction) Option {
	return func(c *config) { c.direction = d }
}

// WithFilename sets the output file name without extension. The default is
// derived from the title by DefaultFilename.
func WithFilename(name string) Option {
	return func(c *config) { c.filename = name }
}

// WithCatalog replaces the built-in icon catalog used to validate categories.
func WithCatalog(cat catalog.Catalog) Option {
	return func(c *config) {
		if cat != nil {
			c.catalog = cat
		}
	}
}

// NodeOption configures a node.
type NodeOption func(*Node)

// WithDisplayName sets a caption distinct from the node's label.
func WithDisplayName(name string) NodeOption {
	return func(n *Node) { n.DisplayName = name }
}

// EdgeOption configures edges created by a single AddEdge call.
type EdgeOption func(*Edge)

// WithColor sets the line colour (any Graphviz colour name or #rrggbb).
func WithColor(color string) EdgeOption {
	return func(e *Edge) { e.Color = color }
}

// WithStyle sets the line style.
func WithStyle(style EdgeStyle) EdgeOption {
	return func(e *Edge) { e.Style = style }
}

// Builder assembles one Diagram. Create it with Begin and always Close it;
// Build does both.
type Builder struct {
	ctx      context.Context
	d        *Diagram
	catalog  catalog.Catalog
	renderer Renderer

	err    error // first construction error
	closed bool
	result error
}

// Begin opens a diagram scope. Invalid arguments do not panic: the error is
// recorded and returned by Close, which then skips rendering.
//
// A nil renderer is allowed; Close then only seals the model.
func Begin(ctx context.Context, title string, r Renderer, opts ...Option) *Builder {
	cfg := config{direction: DefaultDirection, catalog: catalog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.filename == "" {
		cfg.filename = DefaultFilename(title)
	}

	b := &Builder{
		ctx:      ctx,
		d:        newDiagram(title, cfg.direction, cfg.filename),
		catalog:  cfg.catalog,
		renderer: r,
	}

	if err := errors.ValidateLabel(title); err != nil {
		b.fail(errors.Wrap(errors.ErrCodeInvalidInput, err, "diagram title"))
	}
	if _, err := ParseDirection(string(cfg.direction)); err != nil {
		b.fail(err)
	}
	if err := errors.ValidateFilename(cfg.filename); err != nil {
		b.fail(err)
	}
	return b
}

// Build opens a diagram, runs fn, and finalizes the diagram on every exit
// path. If fn returns an error or panics, the diagram is sealed without
// rendering; a panic is re-raised after finalization.
//
// The returned diagram is sealed. The error is the first construction error,
// or the renderer's error.
func Build(ctx context.Context, title string, r Renderer, fn func(b *Builder) error, opts ...Option) (*Diagram, error) {
	b := Begin(ctx, title, r, opts...)
	defer func() {
		if p := recover(); p != nil {
			b.fail(errors.New(errors.ErrCodeInternal, "diagram %q: panic during construction: %v", title, p))
			_ = b.Close()
			panic(p)
		}
	}()

	if err := fn(b); err != nil {
		b.fail(err)
	}
	return b.d, b.Close()
}

// Diagram returns the model under construction.
func (b *Builder) Diagram() *Diagram { return b.d }

// Root returns the diagram's top-level scope.
func (b *Builder) Root() *Cluster { return b.d.root }

// Err returns the first construction error, if any.
func (b *Builder) Err() error { return b.err }

// fail records the first construction error and returns err.
func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

func (b *Builder) checkOpen() error {
	if b.closed {
		return errors.New(errors.ErrCodeScopeClosed, "diagram %q is already finalized", b.d.title)
	}
	return nil
}

// scope validates that parent is an open cluster of this diagram.
func (b *Builder) scope(parent *Cluster) (*Cluster, error) {
	if parent == nil {
		return nil, errors.New(errors.ErrCodeInvalidScope, "parent scope is nil (use Root() for the top level)")
	}
	if parent.diagram != b.d {
		return nil, errors.New(errors.ErrCodeInvalidScope, "scope %q belongs to another diagram", parent.name)
	}
	if parent.closed {
		return nil, errors.New(errors.ErrCodeScopeClosed, "cluster %q is closed", parent.name)
	}
	return parent, nil
}

// BeginCluster opens a named cluster inside parent. Nesting depth is
// unbounded.
func (b *Builder) BeginCluster(parent *Cluster, name string) (*Cluster, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	p, err := b.scope(parent)
	if err != nil {
		return nil, b.fail(err)
	}
	if err := errors.ValidateLabel(name); err != nil {
		return nil, b.fail(errors.Wrap(errors.ErrCodeInvalidInput, err, "cluster name"))
	}

	c := &Cluster{
		diagram: b.d,
		id:      len(b.d.clusters) + 1,
		name:    name,
		parent:  p,
	}
	p.children = append(p.children, c)
	b.d.clusters = append(b.d.clusters, c)
	return c, nil
}

// EndCluster closes c and every cluster nested in it. Closing an already
// closed cluster is a no-op. The root scope is closed only by Close.
func (b *Builder) EndCluster(c *Cluster) error {
	if c == nil || c.diagram != b.d {
		return b.fail(errors.New(errors.ErrCodeInvalidScope, "cannot end a cluster of another diagram"))
	}
	if c.IsRoot() {
		return b.fail(errors.New(errors.ErrCodeInvalidScope, "the root scope is closed by finalizing the diagram"))
	}
	c.close()
	return nil
}

// InCluster opens a cluster, runs fn with it, and closes the cluster however
// fn returns.
func (b *Builder) InCluster(parent *Cluster, name string, fn func(c *Cluster) error) (err error) {
	c, err := b.BeginCluster(parent, name)
	if err != nil {
		return err
	}
	defer func() {
		if endErr := b.EndCluster(c); err == nil {
			err = endErr
		}
	}()
	return fn(c)
}

// AddNode declares a node in parent. It fails with INVALID_CATEGORY if the
// catalog does not know category; nothing is added in that case.
func (b *Builder) AddNode(parent *Cluster, category catalog.Category, label string, opts ...NodeOption) (NodeRef, error) {
	if err := b.checkOpen(); err != nil {
		return NodeRef{}, err
	}
	p, err := b.scope(parent)
	if err != nil {
		return NodeRef{}, b.fail(err)
	}
	if _, ok := b.catalog.Lookup(category); !ok {
		return NodeRef{}, b.fail(errors.New(errors.ErrCodeInvalidCategory, "node %q: unknown category %q", label, category))
	}
	if err := errors.ValidateLabel(label); err != nil {
		return NodeRef{}, b.fail(errors.Wrap(errors.ErrCodeInvalidInput, err, "node label"))
	}

	n := &Node{
		ref:      NodeRef{diagram: b.d.id, index: len(b.d.nodes) + 1},
		cluster:  p,
		Category: category,
		Label:    label,
	}
	for _, opt := range opts {
		opt(n)
	}
	if err := errors.ValidateLabel(n.DisplayName); err != nil {
		return NodeRef{}, b.fail(errors.Wrap(errors.ErrCodeInvalidInput, err, "node display name"))
	}

	b.d.nodes = append(b.d.nodes, n)
	p.nodes = append(p.nodes, n)
	return n.ref, nil
}

// AddEdge appends one edge from src to each destination, in order, all with
// the same label and options. All endpoints are checked before anything is
// appended: a failing call leaves the edge list unchanged.
func (b *Builder) AddEdge(src NodeRef, dsts []NodeRef, label string, opts ...EdgeOption) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if err := b.resolve(src, "source"); err != nil {
		return b.fail(err)
	}
	for i, dst := range dsts {
		if err := b.resolve(dst, fmt.Sprintf("destination %d", i)); err != nil {
			return b.fail(err)
		}
	}

	tmpl := Edge{Label: label}
	for _, opt := range opts {
		opt(&tmpl)
	}
	if err := validateEdge(tmpl); err != nil {
		return b.fail(err)
	}

	for _, dst := range dsts {
		e := tmpl
		e.From, e.To = src, dst
		b.d.edges = append(b.d.edges, e)
	}
	return nil
}

// Connect appends a single edge from src to dst.
func (b *Builder) Connect(src, dst NodeRef, label string, opts ...EdgeOption) error {
	return b.AddEdge(src, []NodeRef{dst}, label, opts...)
}

// AddFanIn appends one edge from each source to dst, in order. Like AddEdge,
// it checks every endpoint before appending anything.
func (b *Builder) AddFanIn(srcs []NodeRef, dst NodeRef, label string, opts ...EdgeOption) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	for i, src := range srcs {
		if err := b.resolve(src, fmt.Sprintf("source %d", i)); err != nil {
			return b.fail(err)
		}
	}
	if err := b.resolve(dst, "destination"); err != nil {
		return b.fail(err)
	}

	tmpl := Edge{Label: label}
	for _, opt := range opts {
		opt(&tmpl)
	}
	if err := validateEdge(tmpl); err != nil {
		return b.fail(err)
	}

	for _, src := range srcs {
		e := tmpl
		e.From, e.To = src, dst
		b.d.edges = append(b.d.edges, e)
	}
	return nil
}

func (b *Builder) resolve(ref NodeRef, role string) error {
	if _, ok := b.d.Node(ref); !ok {
		return errors.New(errors.ErrCodeUnknownNodeRef, "edge %s is not a node of diagram %q", role, b.d.title)
	}
	return nil
}

func validateEdge(e Edge) error {
	if err := errors.ValidateLabel(e.Label); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "edge label")
	}
	switch e.Style {
	case "", EdgeSolid, EdgeDashed, EdgeDotted, EdgeBold:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid edge style: %q (must be one of: solid, dashed, dotted, bold)", e.Style)
	}
	return nil
}

// Close finalizes the diagram. The first call seals every scope and, if no
// construction error was recorded, hands the diagram to the renderer; later
// calls return the same result without side effects.
//
// Renderer errors without a code are reported as RENDER_ERROR.
func (b *Builder) Close() error {
	if b.closed {
		return b.result
	}
	b.closed = true
	b.d.seal()

	rendered := false
	defer func() {
		p := recover()
		if p != nil && b.result == nil {
			b.result = errors.New(errors.ErrCodeRender, "render diagram %q: renderer panicked: %v", b.d.title, p)
		}
		observability.Diagram().OnFinalize(b.ctx, b.d.title, rendered, b.result)
		if p != nil {
			panic(p)
		}
	}()

	switch {
	case b.err != nil:
		b.result = b.err
	case b.renderer == nil:
	default:
		if err := b.renderer.Render(b.ctx, b.d); err != nil {
			b.result = errors.EnsureCode(err, errors.ErrCodeRender, "render diagram %q", b.d.title)
		} else {
			rendered = true
		}
	}
	return b.result
}
