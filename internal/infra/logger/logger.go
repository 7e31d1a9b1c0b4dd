package logger

import (
	"io"
	"log/slog"
	"os"
)

// New — JSON-лог в stderr: stdout у CLI занят таблицами.
func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stderr)
}

func NewWithWriter(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
