package logging

import (
	"io"
	"log/slog"
)

// newJSONHandler wraps slog's JSON handler with the shared level variable so
// every handler in the process agrees on verbosity.
func newJSONHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
}
