package logger

import (
	"log/slog"
	"os"
)

// Log is the package-wide logger. It starts as slog's default so that
// code paths and tests that log before Setup runs do not crash; Setup
// swaps in the environment-specific handler.
var Log = slog.Default()

// Setup configures the package logger for the given environment.
// Production emits JSON lines for log shipping, everything else gets a
// human-readable text handler with debug level enabled.
func Setup(env string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func Debug(msg string, args ...any) { Log.Debug(msg, args...) }

func Info(msg string, args ...any) { Log.Info(msg, args...) }

func Warn(msg string, args ...any) { Log.Warn(msg, args...) }

func Error(msg string, args ...any) { Log.Error(msg, args...) }
