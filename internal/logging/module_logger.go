package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

const (
	rootModule     = "contentjson"
	builderModule  = "contentjson.builder"
	markdownModule = "contentjson.markdown"
	storageModule  = "contentjson.storage"
)

const (
	fieldContentPath = "content_path"
	fieldContentKind = "content_kind"
	fieldRunID       = "run_id"
)

// ModuleLogger returns a module-scoped logger, falling back to NoOp when no
// provider is supplied. The module name is attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// WithFields returns logger with fields attached when it implements
// interfaces.FieldsLogger, and logger itself otherwise. fields is copied.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fl.WithFields(maps.Clone(fields))
}

// BuilderLogger returns the logger namespace reserved for manifest builds.
func BuilderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, builderModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown compilation.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// StorageLogger returns the logger namespace reserved for manifest stores.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// WithContentFile enriches logger with the content path and kind being
// processed. Empty values are skipped.
func WithContentFile(logger interfaces.Logger, path, kind string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldContentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(kind); trimmed != "" {
		fields[fieldContentKind] = trimmed
	}
	return WithFields(logger, fields)
}

// WithRunID tags every entry with the build run identifier.
func WithRunID(logger interfaces.Logger, runID string) interfaces.Logger {
	if strings.TrimSpace(runID) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldRunID: runID})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
