// Package render turns sealed diagrams into image files.
//
// # Overview
//
// This package is the rendering collaborator of [diagram.Builder]. It
// translates a [diagram.Diagram] into Graphviz DOT source and lets Graphviz
// own the layout. Nested clusters become nested "subgraph cluster_N" blocks,
// nodes are styled from the icon catalog, and edge labels are drawn on the
// connectors.
//
//	dot := render.ToDOT(d, render.Options{})
//	png, err := render.RenderDOT(ctx, dot, render.FormatPNG)
//
// # Formats
//
// [FormatPNG], [FormatSVG] and [FormatJPG] are produced in-process by
// Graphviz. [FormatDOT] is the DOT source itself and [FormatJSON] is the
// model export from pkg/io.
//
// # Renderers
//
// [FileRenderer] writes "<filename>.<format>" into an output directory. All
// formats are rendered before anything is written, and each file is moved
// into place with a rename, so a failed run leaves no partial image behind.
// [MemoryRenderer] keeps the artifacts in memory for the preview server and
// tests.
//
// Graphviz output is cached through [cache.Cache] keyed by the DOT source and
// format; pass a cache in [Options].
//
// [diagram.Builder]: github.com/matzehuels/archdiagram/pkg/diagram.Builder
// [diagram.Diagram]: github.com/matzehuels/archdiagram/pkg/diagram.Diagram
// [cache.Cache]: github.com/matzehuels/archdiagram/pkg/cache.Cache
package render
