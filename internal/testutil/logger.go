package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards all output. The services log on
// every state transition, so tests pass this unless they assert on logs.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
