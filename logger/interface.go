// Package logger defines the structured logging contract used across the library.
// The default implementation wraps zerolog; a no-op logger keeps the client silent
// when the host application does not configure one.
package logger

import "time"

// Logger is the contract for structured logging throughout the library.
// It provides methods for creating log events at different severity levels
// and for deriving contextual loggers.
type Logger interface {
	Debug() LogEvent
	Info() LogEvent
	Warn() LogEvent
	Error() LogEvent
	WithContext(ctx any) Logger
	WithFields(fields map[string]any) Logger
}

// LogEvent is a structured log event built with typed fields and sent with Msg.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Int64(key string, value int64) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Interface(key string, i any) LogEvent
	Bytes(key string, val []byte) LogEvent
}
