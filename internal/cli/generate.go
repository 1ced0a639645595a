package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/pkg/blueprint"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/pipeline"
)

// generateOpts holds the flags shared by generate and render.
type generateOpts struct {
	formats   []string
	output    string
	direction string
	filename  string
	detailed  bool
}

func (o generateOpts) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Formats:   o.formats,
		OutputDir: o.output,
		Direction: o.direction,
		Filename:  o.filename,
		Detailed:  o.detailed,
	}
}

func addGenerateFlags(cmd *cobra.Command, opts *generateOpts) {
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output formats: png, svg, jpg, dot, json (default png)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", pipeline.DefaultOutputDir, "output directory")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "override layout direction: LR, RL, TB, BT")
	cmd.Flags().StringVar(&opts.filename, "filename", "", "override output file name (without extension)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add icon captions to node labels")
}

// generateCommand creates the generate command, which runs built-in blueprints.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		opts generateOpts
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "generate [blueprint...]",
		Short: "Generate diagrams from built-in blueprints",
		Long: `Generate runs each named blueprint and writes one file per format, named after
the diagram (for example document_vault_app.png). Every blueprint is built
independently: a failing blueprint writes nothing and makes the command exit
non-zero, but does not stop the others.`,
		Example: `  archdiagram generate document-vault-app
  archdiagram generate sdlc-container-apps -f png,svg -o docs/img
  archdiagram generate --all`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return blueprint.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			bps, err := selectBlueprints(args, all)
			if err != nil {
				return err
			}
			if opts.filename != "" && len(bps) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--filename needs exactly one blueprint, got %d", len(bps))
			}
			return c.runBlueprints(cmd.Context(), bps, opts)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "generate every built-in blueprint")
	addGenerateFlags(cmd, &opts)

	return cmd
}

// selectBlueprints resolves blueprint names, or every registered blueprint
// when all is set.
func selectBlueprints(names []string, all bool) ([]blueprint.Blueprint, error) {
	if all {
		if len(names) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--all cannot be combined with blueprint names")
		}
		return blueprint.All(), nil
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no blueprint given (run %q to see them, or use --all)", appName+" list")
	}

	bps := make([]blueprint.Blueprint, 0, len(names))
	for _, name := range names {
		bp, err := blueprint.Get(name)
		if err != nil {
			return nil, err
		}
		bps = append(bps, bp)
	}
	return bps, nil
}

// runBlueprints generates every blueprint and returns the first failure.
func (c *CLI) runBlueprints(ctx context.Context, bps []blueprint.Blueprint, opts generateOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(logger)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(logger)
	var (
		firstErr error
		written  int
	)
	for _, bp := range bps {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := runner.Generate(ctx, bp, opts.pipelineOptions())
		if err != nil {
			printError(c.Out, "%s: %s", bp.Name, errors.UserMessage(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, f := range res.Files {
			printGenerated(c.Out, f)
		}
		written++
		logger.Debug("diagram stats", "blueprint", bp.Name, "nodes", res.Stats.Nodes, "edges", res.Stats.Edges, "depth", res.Stats.MaxDepth)
	}

	if len(bps) > 1 {
		prog.done(fmt.Sprintf("Generated %d of %d diagrams", written, len(bps)))
	}
	return firstErr
}
