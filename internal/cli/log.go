// Package cli implements the plotdown command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. Block
// diagnostics (malformed payloads, rejected plot expressions) are logged at
// warn level and summarized after each render.
//
// # Commands
//
// The main commands are:
//   - render: Render a Markdown document to HTML, optionally watching for changes
//   - export: Write every diagram block to SVG, PNG or PDF files
//   - blocks: Browse a document's fenced blocks interactively
//   - config: Show the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Without it
// the level comes from the config file (default info).
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered notes.md (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
