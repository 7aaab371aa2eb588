package app

import (
	"io"
	"log/slog"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the app's own slog.Logger writing to outW. The global
// logger is left untouched so that several App instances, as in tests, keep
// isolated output. Unknown level names fall back to info.
func newLogger(level, format string, outW io.Writer) *slog.Logger {
	lvl, ok := logLevels[level]
	if !ok {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler = slog.NewTextHandler(outW, opts)
	if format == "json" {
		handler = slog.NewJSONHandler(outW, opts)
	}
	return slog.New(handler)
}
