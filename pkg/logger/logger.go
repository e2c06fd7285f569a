package logger

import (
	"io"
	"log/slog"
	"os"
)

var Log *slog.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func Init(production bool) {
	level := slog.LevelDebug
	if production {
		level = slog.LevelInfo
	}
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	Log = slog.New(handler)
}
