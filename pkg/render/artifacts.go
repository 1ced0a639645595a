package render

import (
	"context"

	"github.com/matzehuels/archdiagram/pkg/cache"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/io"
)

// Artifact is one rendered output.
type Artifact struct {
	Format Format
	Data   []byte
}

// Artifacts renders d in every requested format, in order. It fails on the
// first format that cannot be produced and returns no artifacts in that case.
func Artifacts(ctx context.Context, d *diagram.Diagram, formats []Format, opts Options) ([]Artifact, error) {
	if len(formats) == 0 {
		formats = []Format{DefaultFormat}
	}
	dot := ToDOT(d, opts)

	out := make([]Artifact, 0, len(formats))
	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := renderFormat(ctx, d, dot, f, opts)
		if err != nil {
			return nil, errors.EnsureCode(err, errors.ErrCodeRender, "render %s", f)
		}
		out = append(out, Artifact{Format: f, Data: data})
	}
	return out, nil
}

func renderFormat(ctx context.Context, d *diagram.Diagram, dot string, f Format, opts Options) ([]byte, error) {
	switch f {
	case FormatDOT:
		return []byte(dot), nil
	case FormatJSON:
		return io.MarshalJSON(d)
	case FormatPNG, FormatSVG, FormatJPG:
		return renderCached(ctx, dot, f, opts.Cache)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %q", f)
	}
}

// renderCached consults c before running Graphviz. Cache failures never fail
// the render; they only cost a re-render.
func renderCached(ctx context.Context, dot string, f Format, c cache.Cache) ([]byte, error) {
	if c == nil {
		return RenderDOT(ctx, dot, f)
	}
	key := cache.ArtifactKey([]byte(dot), string(f))
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, nil
	}
	data, err := RenderDOT(ctx, dot, f)
	if err != nil {
		return nil, err
	}
	_ = c.Set(ctx, key, data, 0)
	return data, nil
}
