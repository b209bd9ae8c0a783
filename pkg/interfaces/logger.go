package interfaces

import "context"

// Logger is the leveled logging contract used across the manifest builder.
// It matches the method set of github.com/goliatone/go-logger so the glog
// adapter stays a thin wrapper.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, one per module scope.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry persistent
// structured fields on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
