package config

import (
	"fmt"
	"log/slog"
	"os"
)

func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// SetupLogger installs a text handler at the given level as the default logger.
func SetupLogger(level string) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		slog.Warn("Falling back to info log level", "error", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
