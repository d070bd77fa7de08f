package common

import (
	"context"
	"log/slog"
	"os"
)

// Fields carries structured attributes for the package log helpers.
type Fields map[string]any

// SetupLogger installs the process-wide slog logger. Unknown formats
// fall back to console output.
func SetupLogger(level slog.Level, format string) error {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// LogError logs err at error level with the fields attached.
func LogError(err error, msg string, fields Fields) {
	logAt(slog.LevelError, msg, err, fields)
}

// LogInfo logs msg at info level with the fields attached.
func LogInfo(msg string, fields Fields) {
	logAt(slog.LevelInfo, msg, nil, fields)
}

func logAt(level slog.Level, msg string, err error, fields Fields) {
	attrs := make([]slog.Attr, 0, len(fields)+1)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	slog.LogAttrs(context.Background(), level, msg, attrs...)
}
