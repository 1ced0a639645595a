// Package cli implements the archdiagram command-line interface.
//
// The CLI is built with cobra. Diagnostics go through charmbracelet/log on
// stderr; user-facing status lines (such as "generated: <file>") are styled
// with lipgloss and written to stdout.
//
// # Commands
//
//   - generate: run one or more built-in blueprints and write their images
//   - render: run a TOML, YAML or JSON definition file
//   - list, categories: show blueprints and icon categories
//   - serve: HTTP preview server with Prometheus metrics
//   - cache: inspect or clear the artifact cache
//
// # Logging
//
// --verbose (-v) switches to debug level. The logger travels in the command's
// context.Context so helpers can reach it without extra parameters.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a timestamped logger ("14:32:01.45") writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures one operation and logs its duration when done.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Generated 5 diagrams (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() when the
// context carries none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}
