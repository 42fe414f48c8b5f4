package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the service logger writing to stdout. The returned LevelVar
// can be adjusted at runtime with SetLevel.
func New(lvl string, addSource bool, environment string) (*slog.Logger, *slog.LevelVar) {
	return NewWithWriter(os.Stdout, lvl, addSource, environment)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, lvl string, addSource bool, environment string) (*slog.Logger, *slog.LevelVar) {
	level := new(slog.LevelVar)
	level.Set(parseLevel(lvl))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	}
	var handler slog.Handler

	if strings.ToLower(environment) == "prod" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	log := slog.New(handler).With(
		slog.String("environment", environment),
	)

	return log, level
}

// SetLevel switches level to lvl. Unknown names fall back to info.
func SetLevel(level *slog.LevelVar, lvl string) {
	level.Set(parseLevel(lvl))
}

func parseLevel(level string) slog.Level {

	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
