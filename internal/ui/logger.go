package ui

import (
	"io"
	"log/slog"
)

// NewLogger builds the process logger: human-readable text records on w at
// level, plus, when jsonW is non-nil, every debug-and-above record as JSON.
func NewLogger(w io.Writer, level slog.Level, jsonW io.Writer) *slog.Logger {
	var h slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	if jsonW != nil {
		h = NewMultiHandler(h, slog.NewJSONHandler(jsonW, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(h)
}
