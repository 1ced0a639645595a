package render

import (
	"context"

	"github.com/matzehuels/archdiagram/pkg/diagram"
)

// MemoryRenderer keeps rendered artifacts in memory.
type MemoryRenderer struct {
	Formats []Format
	Options Options

	artifacts []Artifact
}

// NewMemoryRenderer returns a renderer producing formats.
func NewMemoryRenderer(formats []Format, opts Options) *MemoryRenderer {
	return &MemoryRenderer{Formats: formats, Options: opts}
}

// Render replaces the stored artifacts with those of d.
func (r *MemoryRenderer) Render(ctx context.Context, d *diagram.Diagram) error {
	arts, err := Artifacts(ctx, d, r.Formats, r.Options)
	if err != nil {
		return err
	}
	r.artifacts = arts
	return nil
}

// Artifacts returns everything produced by the last successful Render.
func (r *MemoryRenderer) Artifacts() []Artifact { return r.artifacts }

// Get returns the artifact for format.
func (r *MemoryRenderer) Get(format Format) ([]byte, bool) {
	for _, a := range r.artifacts {
		if a.Format == format {
			return a.Data, true
		}
	}
	return nil, false
}

var _ diagram.Renderer = (*MemoryRenderer)(nil)
