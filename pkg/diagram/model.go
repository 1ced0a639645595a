package diagram

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Direction is the layout direction hint passed to the renderer.
type Direction string

const (
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"

	// DefaultDirection matches the left-to-right flow of the original diagrams.
	DefaultDirection = LeftToRight
)

// ParseDirection parses "LR", "RL", "TB" or "BT" (case-insensitive).
// An empty string yields DefaultDirection.
func ParseDirection(s string) (Direction, error) {
	if s == "" {
		return DefaultDirection, nil
	}
	d := Direction(strings.ToUpper(s))
	switch d {
	case LeftToRight, RightToLeft, TopToBottom, BottomToTop:
		return d, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "invalid direction: %q (must be one of: LR, RL, TB, BT)", s)
}

// defaultImageName is used when neither a title nor a filename is given.
const defaultImageName = "diagrams_image"

// DefaultFilename derives an output file name (without extension) from a
// title: whitespace runs become a single underscore and the result is
// lower-cased. "Document vault app" becomes "document_vault_app".
func DefaultFilename(title string) string {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return defaultImageName
	}
	return strings.ToLower(strings.Join(fields, "_"))
}

// NodeRef is an opaque handle to a node, valid only within the diagram that
// created it. The zero value refers to no node.
type NodeRef struct {
	diagram uuid.UUID
	index   int // 1-based position in Diagram.nodes
}

// IsZero reports whether r is the zero NodeRef.
func (r NodeRef) IsZero() bool { return r.index == 0 }

// Node is a categorized vertex. Nodes are immutable once added.
type Node struct {
	ref         NodeRef
	cluster     *Cluster
	Category    catalog.Category
	Label       string // Identity text given at creation
	DisplayName string // Optional caption shown instead of Label
}

// Ref returns the node's handle.
func (n *Node) Ref() NodeRef { return n.ref }

// Cluster returns the scope the node was declared in.
func (n *Node) Cluster() *Cluster { return n.cluster }

// DisplayLabel returns the display name if set, otherwise the label.
func (n *Node) DisplayLabel() string {
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return n.Label
}

// EdgeStyle is the line style of an edge.
type EdgeStyle string

const (
	EdgeSolid  EdgeStyle = "solid"
	EdgeDashed EdgeStyle = "dashed"
	EdgeDotted EdgeStyle = "dotted"
	EdgeBold   EdgeStyle = "bold"
)

// Edge is a directed, optionally labelled connection between two nodes.
type Edge struct {
	From  NodeRef
	To    NodeRef
	Label string
	Color string    // Optional line colour
	Style EdgeStyle // Optional line style (solid when empty)
}

// Cluster is a named grouping of nodes and sub-clusters. Every diagram has an
// unnamed root cluster; all other clusters hang below it, forming a tree.
type Cluster struct {
	diagram  *Diagram
	id       int // 0 for the root, creation order otherwise
	name     string
	parent   *Cluster
	nodes    []*Node
	children []*Cluster
	closed   bool
}

// ID returns the cluster's creation index (0 for the root).
func (c *Cluster) ID() int { return c.id }

// Name returns the cluster's label. The root cluster has no name.
func (c *Cluster) Name() string { return c.name }

// Parent returns the enclosing cluster, or nil for the root.
func (c *Cluster) Parent() *Cluster { return c.parent }

// IsRoot reports whether c is the diagram's root scope.
func (c *Cluster) IsRoot() bool { return c.parent == nil }

// Closed reports whether the cluster accepts no further members.
func (c *Cluster) Closed() bool { return c.closed }

// Nodes returns the nodes declared directly in this cluster, in declaration order.
func (c *Cluster) Nodes() []*Node { return slices.Clone(c.nodes) }

// Clusters returns the direct sub-clusters, in declaration order.
func (c *Cluster) Clusters() []*Cluster { return slices.Clone(c.children) }

// Path returns the names from the outermost cluster down to c.
// The root cluster has an empty path.
func (c *Cluster) Path() []string {
	var path []string
	for cur := c; cur != nil && !cur.IsRoot(); cur = cur.parent {
		path = append(path, cur.name)
	}
	slices.Reverse(path)
	return path
}

// Depth returns the nesting depth (0 for the root).
func (c *Cluster) Depth() int {
	depth := 0
	for cur := c; cur != nil && !cur.IsRoot(); cur = cur.parent {
		depth++
	}
	return depth
}

// Contains reports whether the node is declared in c or any descendant of c.
func (c *Cluster) Contains(ref NodeRef) bool {
	n, ok := c.diagram.Node(ref)
	if !ok {
		return false
	}
	for cur := n.cluster; cur != nil; cur = cur.parent {
		if cur == c {
			return true
		}
	}
	return false
}

func (c *Cluster) close() {
	for _, child := range c.children {
		child.close()
	}
	c.closed = true
}

// Diagram is the assembled model. It is created by a Builder and sealed at
// finalization; a sealed diagram is read-only.
type Diagram struct {
	id        uuid.UUID
	title     string
	direction Direction
	filename  string
	root      *Cluster
	nodes     []*Node
	edges     []Edge
	clusters  []*Cluster
	sealed    bool
}

func newDiagram(title string, direction Direction, filename string) *Diagram {
	d := &Diagram{
		id:        uuid.New(),
		title:     title,
		direction: direction,
		filename:  filename,
	}
	d.root = &Cluster{diagram: d}
	return d
}

// ID returns the diagram's unique identity.
func (d *Diagram) ID() uuid.UUID { return d.id }

// Title returns the diagram title.
func (d *Diagram) Title() string { return d.title }

// Direction returns the layout direction hint.
func (d *Diagram) Direction() Direction { return d.direction }

// Filename returns the output file name without extension.
func (d *Diagram) Filename() string { return d.filename }

// Root returns the top-level scope.
func (d *Diagram) Root() *Cluster { return d.root }

// Sealed reports whether the diagram has been finalized.
func (d *Diagram) Sealed() bool { return d.sealed }

// Nodes returns all nodes in declaration order.
func (d *Diagram) Nodes() []*Node { return slices.Clone(d.nodes) }

// Edges returns a copy of all edges in declaration order.
func (d *Diagram) Edges() []Edge { return slices.Clone(d.edges) }

// Clusters returns every non-root cluster in declaration order.
func (d *Diagram) Clusters() []*Cluster { return slices.Clone(d.clusters) }

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// ClusterCount returns the number of non-root clusters.
func (d *Diagram) ClusterCount() int { return len(d.clusters) }

// Node resolves ref. It returns false for zero refs and refs issued by
// another diagram.
func (d *Diagram) Node(ref NodeRef) (*Node, bool) {
	if ref.diagram != d.id || ref.index < 1 || ref.index > len(d.nodes) {
		return nil, false
	}
	return d.nodes[ref.index-1], true
}

// Stats summarizes a diagram's size.
type Stats struct {
	Nodes    int
	Edges    int
	Clusters int
	MaxDepth int
}

// Stats returns node, edge and cluster counts and the deepest cluster nesting.
func (d *Diagram) Stats() Stats {
	s := Stats{Nodes: len(d.nodes), Edges: len(d.edges), Clusters: len(d.clusters)}
	for _, c := range d.clusters {
		s.MaxDepth = max(s.MaxDepth, c.Depth())
	}
	return s
}

// Validate checks the model invariants: every edge endpoint resolves to a
// node of this diagram, and every node's cluster chain ends at this diagram's
// root. Diagrams produced by a Builder always pass.
func (d *Diagram) Validate() error {
	for i, e := range d.edges {
		if _, ok := d.Node(e.From); !ok {
			return errors.New(errors.ErrCodeUnknownNodeRef, "edge %d: unknown source node", i)
		}
		if _, ok := d.Node(e.To); !ok {
			return errors.New(errors.ErrCodeUnknownNodeRef, "edge %d: unknown target node", i)
		}
	}
	for _, n := range d.nodes {
		seen := make(map[*Cluster]bool)
		cur := n.cluster
		for cur != nil && !cur.IsRoot() {
			if seen[cur] {
				return errors.New(errors.ErrCodeInvalidScope, "node %q: cluster cycle", n.Label)
			}
			seen[cur] = true
			cur = cur.parent
		}
		if cur != d.root {
			return errors.New(errors.ErrCodeInvalidScope, "node %q: cluster not part of this diagram", n.Label)
		}
	}
	return nil
}

func (d *Diagram) seal() {
	d.root.close()
	d.sealed = true
}
