// Package blueprint holds named, reproducible diagram definitions.
//
// A [Blueprint] pairs diagram metadata (title, direction, output file name)
// with a construction function that declares the nodes, clusters and edges
// through a [diagram.Builder]. Each blueprint is an independently runnable
// unit: the CLI's "generate <name>" runs exactly one blueprint and writes
// one image.
//
// The built-in blueprints document the DocumentVault application and its
// delivery pipelines. They are registered at init time; definition files
// loaded by pkg/io are converted to blueprints as well, so both paths share
// every builder rule.
//
// [diagram.Builder]: github.com/matzehuels/archdiagram/pkg/diagram.Builder
package blueprint

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Blueprint is a named diagram definition.
type Blueprint struct {
	Name        string            // Registry key, e.g. "sdlc-container-apps"
	Title       string            // Diagram title
	Description string            // One-line summary for listings
	Direction   diagram.Direction // Empty means diagram.DefaultDirection
	Filename    string            // Empty means derived from Title
	Build       func(b *diagram.Builder) error
}

// Validate checks the blueprint's metadata.
func (bp Blueprint) Validate() error {
	if err := errors.ValidateBlueprintName(bp.Name); err != nil {
		return err
	}
	if bp.Build == nil {
		return errors.New(errors.ErrCodeInvalidInput, "blueprint %q has no build function", bp.Name)
	}
	if _, err := diagram.ParseDirection(string(bp.Direction)); err != nil {
		return err
	}
	if bp.Filename != "" {
		if err := errors.ValidateFilename(bp.Filename); err != nil {
			return err
		}
	}
	return nil
}

// Options returns the builder options described by the blueprint's metadata.
func (bp Blueprint) Options() []diagram.Option {
	var opts []diagram.Option
	if bp.Direction != "" {
		opts = append(opts, diagram.WithDirection(bp.Direction))
	}
	if bp.Filename != "" {
		opts = append(opts, diagram.WithFilename(bp.Filename))
	}
	return opts
}

// Run builds the blueprint and hands the result to r. Later options override
// the blueprint's own.
func (bp Blueprint) Run(ctx context.Context, r diagram.Renderer, opts ...diagram.Option) (*diagram.Diagram, error) {
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return diagram.Build(ctx, bp.Title, r, bp.Build, append(bp.Options(), opts...)...)
}

// Registry is a concurrency-safe set of blueprints keyed by name.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Blueprint
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Blueprint)}
}

// Register adds bp. Names must be unique.
func (r *Registry) Register(bp Blueprint) error {
	if err := bp.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.items[bp.Name]; dup {
		return errors.New(errors.ErrCodeInvalidInput, "blueprint %q already registered", bp.Name)
	}
	r.items[bp.Name] = bp
	return nil
}

// Get returns the blueprint called name, or NOT_FOUND.
func (r *Registry) Get(name string) (Blueprint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bp, ok := r.items[name]
	if !ok {
		return Blueprint{}, errors.New(errors.ErrCodeNotFound, "unknown blueprint %q", name)
	}
	return bp, nil
}

// All returns every blueprint sorted by name.
func (r *Registry) All() []Blueprint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Blueprint, 0, len(r.items))
	for _, bp := range r.items {
		out = append(out, bp)
	}
	slices.SortFunc(out, func(a, b Blueprint) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, bp := range all {
		names[i] = bp.Name
	}
	return names
}

var defaultRegistry = NewRegistry()

// Register adds bp to the default registry.
func Register(bp Blueprint) error { return defaultRegistry.Register(bp) }

// MustRegister is like Register but panics on error.
func MustRegister(bp Blueprint) {
	if err := Register(bp); err != nil {
		panic(err)
	}
}

// Get looks name up in the default registry.
func Get(name string) (Blueprint, error) { return defaultRegistry.Get(name) }

// All lists the default registry.
func All() []Blueprint { return defaultRegistry.All() }

// Names lists the default registry's names.
func Names() []string { return defaultRegistry.Names() }

// Default returns the default registry, which holds the built-in blueprints.
func Default() *Registry { return defaultRegistry }
