package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/internal/server"
)

// serveCommand starts the HTTP preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diagram previews over HTTP",
		Long: `Serve renders blueprints on request (GET /diagrams/{name}?format=svg) and
accepts definition files (POST /render). Prometheus metrics are exposed on
/metrics. Use --cache-url redis://... to share rendered artifacts between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(logger)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			metrics := server.NewMetrics()
			metrics.Install()

			srv := server.New(runner, server.WithMetrics(metrics), server.WithLogger(logger))
			printInfo(c.Out, "Serving previews on %s", addr)
			if strings.HasPrefix(addr, ":") {
				printNextStep(c.Out, "Try", "curl http://localhost"+addr+"/diagrams")
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	return cmd
}
