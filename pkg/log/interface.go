// Package log provides structured logging for sglearn estimators.
//
// The Logger interface mirrors the method set of log/slog so callers can plug in any
// backend. The package-level provider is backed by zerolog and writes JSON lines.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("linear_model").With(
//	    log.ModelNameKey, "SparseGroupLasso",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 15,
//	)
package log

import (
	"context"
)

// Logger is a structured, leveled logger. Fields are alternating key/value pairs.
// For Error, an error passed as the first field is recorded under ErrAttrKey together
// with its stack trace.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether a record at level would be emitted. Use it to skip
	// building expensive fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level; values match slog.Level.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// LoggerProvider creates loggers. The package-level functions GetLogger,
// GetLoggerWithName and SetLevel delegate to the default provider.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
