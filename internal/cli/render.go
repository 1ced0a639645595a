package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/io"
)

// renderCommand creates the render command for definition files.
func (c *CLI) renderCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram definition file (TOML, YAML or JSON)",
		Long: `Render loads a diagram definition (nodes, nested clusters and edges) and runs
it through the same builder as the built-in blueprints. Unknown categories,
dangling node ids and unknown keys are reported and nothing is written.`,
		Example: `  archdiagram render vault.toml
  archdiagram render pipeline.yaml -f svg --direction TB`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			def, err := io.LoadDefinition(args[0])
			if err != nil {
				return err
			}
			bp, err := def.Blueprint()
			if err != nil {
				return err
			}
			logger.Debug("loaded definition", "file", args[0], "name", bp.Name)

			runner, err := c.newRunner(logger)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			res, err := runner.Generate(ctx, bp, opts.pipelineOptions())
			if err != nil {
				printError(c.Out, "%s: %s", args[0], errors.UserMessage(err))
				return err
			}
			for _, f := range res.Files {
				printGenerated(c.Out, f)
			}
			printStats(c.Out, res.Stats.Nodes, res.Stats.Edges, res.Stats.Clusters)
			return nil
		},
	}

	addGenerateFlags(cmd, &opts)
	return cmd
}
