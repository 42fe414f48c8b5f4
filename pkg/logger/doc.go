// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package, emitting text in development and
// JSON in production, and exposes the level as a slog.LevelVar so it can be
// changed while the service is running.
package logger
