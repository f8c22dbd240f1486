// Package testhelpers contains shared helpers for tests.
package testhelpers

import (
	"io"
	"log/slog"

	"github.com/jkivimaki/trainwise/internal/logging"
)

// NewLogger creates a debug-level logger writing to the given sink,
// usually a [Writer] so that output is attached to the test.
func NewLogger(logSink io.Writer) *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	return slog.New(handler)
}
