// Package logging provides the structured logger used across the scheduler.
package logging

// Logger defines methods for structured logging.
// All methods accept alternating key-value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
