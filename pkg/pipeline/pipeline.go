// Package pipeline runs blueprints end to end: build, render, write.
//
// The CLI and the preview server both go through a [Runner], so logging,
// caching, hooks and defaults are the same for every entry point.
//
//	runner := pipeline.NewRunner(c, logger)
//	res, err := runner.Generate(ctx, bp, pipeline.Options{Formats: []string{"png", "svg"}})
//	for _, f := range res.Files {
//	    fmt.Println("generated:", f)
//	}
//
// [Runner.Preview] renders a single format in memory without touching the
// filesystem.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// DefaultOutputDir is where files are written when no directory is given.
const DefaultOutputDir = "."

// Options configures a pipeline run.
type Options struct {
	Formats   []string `json:"formats,omitempty"`    // Output formats (default png)
	OutputDir string   `json:"output_dir,omitempty"` // Target directory (default ".")
	Direction string   `json:"direction,omitempty"`  // Overrides the blueprint's direction
	Filename  string   `json:"filename,omitempty"`   // Overrides the blueprint's file name
	Detailed  bool     `json:"detailed,omitempty"`   // Add icon captions to node labels

	Logger *log.Logger `json:"-"`

	formats   []render.Format
	direction diagram.Direction
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	formats, err := render.ParseFormats(o.Formats)
	if err != nil {
		return err
	}
	o.formats = formats
	o.Formats = make([]string, len(formats))
	for i, f := range formats {
		o.Formats[i] = string(f)
	}

	if o.Direction != "" {
		dir, err := diagram.ParseDirection(o.Direction)
		if err != nil {
			return err
		}
		o.direction = dir
		o.Direction = string(dir)
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// builderOptions returns the overrides to apply on top of a blueprint.
func (o *Options) builderOptions() []diagram.Option {
	var opts []diagram.Option
	if o.direction != "" {
		opts = append(opts, diagram.WithDirection(o.direction))
	}
	if o.Filename != "" {
		opts = append(opts, diagram.WithFilename(o.Filename))
	}
	return opts
}

// Result describes a finished run.
type Result struct {
	Blueprint string
	Title     string
	Files     []string          // Paths written, in format order (Generate only)
	Artifacts []render.Artifact // Rendered outputs, in format order
	Stats     Stats
}

// Stats holds sizes and timings of a run.
type Stats struct {
	Nodes     int
	Edges     int
	Clusters  int
	MaxDepth  int
	BuildTime time.Duration // Construction including rendering
}
