package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, builderModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger.WithContext(context.Background()).Debug("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	BuilderLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != builderModule {
		t.Fatalf("expected module %s, got %v", builderModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != builderModule {
		t.Fatalf("expected module field, got %#v", rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	ModuleLogger(provider, "")
	if provider.requested[0] != rootModule {
		t.Fatalf("expected %s, got %v", rootModule, provider.requested)
	}
}

func TestWithContentFileSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	WithContentFile(rec, "blog/post.html", "")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if rec.fields[0][fieldContentPath] != "blog/post.html" {
		t.Fatalf("missing path field: %#v", rec.fields[0])
	}
	if _, ok := rec.fields[0][fieldContentKind]; ok {
		t.Fatalf("empty kind should be skipped: %#v", rec.fields[0])
	}

	WithContentFile(rec, " ", "")
	if len(rec.fields) != 1 {
		t.Fatalf("expected no call for empty fields, got %d", len(rec.fields))
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})
	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("unexpected fields %#v", fields)
	}
	fields["a"] = 5
	if ContextFields(ctx)["a"] != 1 {
		t.Fatalf("ContextFields must return a copy")
	}
}
