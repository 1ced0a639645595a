package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdiagram/pkg/blueprint"
	"github.com/matzehuels/archdiagram/pkg/cache"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/observability"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// Runner executes blueprints with a shared artifact cache.
//
// A Runner holds no per-run state; several goroutines may share one.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching and a nil logger
// discards output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Logger: logger}
}

// Generate builds bp and writes one file per requested format into
// opts.OutputDir. Nothing is written unless construction and every format
// succeed.
func (r *Runner) Generate(ctx context.Context, bp blueprint.Blueprint, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	fr := render.NewFileRenderer(opts.OutputDir, opts.formats, r.renderOptions(opts))
	res, err := r.run(ctx, bp, opts, fr)
	if err != nil {
		return nil, err
	}
	res.Files = fr.Files()
	res.Artifacts = fr.Artifacts()

	for _, f := range res.Files {
		opts.Logger.Debug("wrote file", "path", f)
	}
	return res, nil
}

// Preview builds bp and renders format in memory.
func (r *Runner) Preview(ctx context.Context, bp blueprint.Blueprint, format render.Format, opts Options) (*Result, error) {
	opts.Formats = []string{string(format)}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	mr := render.NewMemoryRenderer(opts.formats, r.renderOptions(opts))
	res, err := r.run(ctx, bp, opts, mr)
	if err != nil {
		return nil, err
	}
	res.Artifacts = mr.Artifacts()
	return res, nil
}

func (r *Runner) renderOptions(opts Options) render.Options {
	return render.Options{
		Detailed: opts.Detailed,
		Cache:    cache.Observed(r.Cache, "artifact"),
	}
}

func (r *Runner) run(ctx context.Context, bp blueprint.Blueprint, opts Options, renderer diagram.Renderer) (*Result, error) {
	hooks := observability.Pipeline()
	logger := opts.Logger

	logger.Debug("building diagram", "blueprint", bp.Name, "formats", opts.Formats)
	hooks.OnBuildStart(ctx, bp.Name)
	start := time.Now()

	timed := diagram.RendererFunc(func(ctx context.Context, d *diagram.Diagram) error {
		hooks.OnRenderStart(ctx, opts.Formats)
		renderStart := time.Now()
		err := renderer.Render(ctx, d)
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
		return err
	})

	d, err := bp.Run(ctx, timed, opts.builderOptions()...)
	elapsed := time.Since(start)

	var nodes, edges int
	if d != nil {
		nodes, edges = d.NodeCount(), d.EdgeCount()
	}
	hooks.OnBuildComplete(ctx, bp.Name, nodes, edges, elapsed, err)
	if err != nil {
		logger.Debug("build failed", "blueprint", bp.Name, "error", err)
		return nil, err
	}

	s := d.Stats()
	logger.Info("generated diagram",
		"blueprint", bp.Name,
		"nodes", s.Nodes,
		"edges", s.Edges,
		"clusters", s.Clusters,
		"duration", elapsed)

	return &Result{
		Blueprint: bp.Name,
		Title:     d.Title(),
		Stats: Stats{
			Nodes:     s.Nodes,
			Edges:     s.Edges,
			Clusters:  s.Clusters,
			MaxDepth:  s.MaxDepth,
			BuildTime: elapsed,
		},
	}, nil
}
