package manifestcmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-contentjson/internal/commands"
	"github.com/goliatone/go-contentjson/internal/logging"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

type stubBuilder struct {
	calls    []interfaces.BuildOptions
	deadline []bool
	result   *interfaces.BuildResult
	err      error
}

func (s *stubBuilder) Build(ctx context.Context, opts interfaces.BuildOptions) (*interfaces.BuildResult, error) {
	s.calls = append(s.calls, opts)
	_, ok := ctx.Deadline()
	s.deadline = append(s.deadline, ok)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubCompiler struct {
	files     []string
	directory int
	err       error
}

func (s *stubCompiler) CompileFile(_ context.Context, rel string) (*interfaces.CompiledDocument, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.files = append(s.files, rel)
	return &interfaces.CompiledDocument{SourcePath: rel}, nil
}

func (s *stubCompiler) CompileDirectory(context.Context) ([]*interfaces.CompiledDocument, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.directory++
	return []*interfaces.CompiledDocument{{SourcePath: "a.md"}, {SourcePath: "b.md"}}, nil
}

type captureLogger struct {
	fields       []map[string]any
	infoMessages []string
}

var _ interfaces.Logger = (*captureLogger)(nil)

func (c *captureLogger) Trace(string, ...any) {}
func (c *captureLogger) Debug(string, ...any) {}
func (c *captureLogger) Info(msg string, _ ...any) {
	c.infoMessages = append(c.infoMessages, msg)
}
func (c *captureLogger) Warn(string, ...any)  {}
func (c *captureLogger) Error(string, ...any) {}
func (c *captureLogger) Fatal(string, ...any) {}

func (c *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	c.fields = append(c.fields, copied)
	return c
}

func (c *captureLogger) WithContext(context.Context) interfaces.Logger {
	return c
}

func TestBuildManifestHandlerInvokesBuilder(t *testing.T) {
	builder := &stubBuilder{result: &interfaces.BuildResult{
		RunID:    "run-1",
		Articles: 3,
		Memoized: 2,
		Written:  true,
	}}
	logger := &captureLogger{}
	handler := NewBuildManifestHandler(builder, logger)

	var got *interfaces.BuildResult
	cmd := BuildManifestCommand{
		DryRun:         true,
		ResultCallback: func(result *interfaces.BuildResult) { got = result },
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}
	if len(builder.calls) != 1 || !builder.calls[0].DryRun {
		t.Fatalf("expected one dry run build, got %+v", builder.calls)
	}
	if got != builder.result {
		t.Fatalf("expected result passed to callback, got %+v", got)
	}

	found := false
	for _, fields := range logger.fields {
		if fields["run_id"] == "run-1" {
			found = true
			if fields["articles"] != 3 || fields["memoized"] != 2 {
				t.Fatalf("unexpected summary fields %#v", fields)
			}
		}
	}
	if !found {
		t.Fatalf("expected summary fields recorded, got %#v", logger.fields)
	}
}

func TestBuildManifestHandlerAppliesMessageTimeout(t *testing.T) {
	builder := &stubBuilder{result: &interfaces.BuildResult{}}
	handler := NewBuildManifestHandler(builder, logging.NoOp(), commands.WithTimeout[BuildManifestCommand](0))

	if err := handler.Execute(context.Background(), BuildManifestCommand{}); err != nil {
		t.Fatalf("execute build: %v", err)
	}
	if err := handler.Execute(context.Background(), BuildManifestCommand{Timeout: time.Minute}); err != nil {
		t.Fatalf("execute build with timeout: %v", err)
	}
	if builder.deadline[0] {
		t.Fatal("expected no deadline without message timeout")
	}
	if !builder.deadline[1] {
		t.Fatal("expected deadline from message timeout")
	}
}

func TestBuildManifestHandlerKeepsValidationCategory(t *testing.T) {
	sentinel := errors.New("unclassifiable")
	builder := &stubBuilder{err: goerrors.Wrap(sentinel, goerrors.CategoryValidation, "content invalid")}
	handler := NewBuildManifestHandler(builder, logging.NoOp())

	called := false
	err := handler.Execute(context.Background(), BuildManifestCommand{
		ResultCallback: func(*interfaces.BuildResult) { called = true },
	})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel preserved, got %v", err)
	}
	if called {
		t.Fatal("expected callback skipped on failure")
	}
}

func TestBuildManifestHandlerRejectsInvalidMessage(t *testing.T) {
	builder := &stubBuilder{}
	handler := NewBuildManifestHandler(builder, logging.NoOp())

	err := handler.Execute(context.Background(), BuildManifestCommand{Timeout: -time.Second})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(builder.calls) != 0 {
		t.Fatalf("expected builder not invoked, got %d calls", len(builder.calls))
	}
}

func TestBuildManifestHandlerNilBuilder(t *testing.T) {
	handler := NewBuildManifestHandler(nil, nil)
	err := handler.Execute(context.Background(), BuildManifestCommand{})
	if !errors.Is(err, ErrBuilderRequired) {
		t.Fatalf("expected ErrBuilderRequired, got %v", err)
	}
}

func TestCompileMarkdownHandlerCompilesDirectory(t *testing.T) {
	compiler := &stubCompiler{}
	handler := NewCompileMarkdownHandler(compiler, logging.NoOp())

	var got []*interfaces.CompiledDocument
	cmd := CompileMarkdownCommand{
		ResultCallback: func(docs []*interfaces.CompiledDocument) { got = docs },
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute compile: %v", err)
	}
	if compiler.directory != 1 || len(compiler.files) != 0 {
		t.Fatalf("expected directory compile, got dir=%d files=%v", compiler.directory, compiler.files)
	}
	if len(got) != 2 {
		t.Fatalf("expected two compiled documents, got %d", len(got))
	}
}

func TestCompileMarkdownHandlerCompilesListedFiles(t *testing.T) {
	compiler := &stubCompiler{}
	handler := NewCompileMarkdownHandler(compiler, logging.NoOp())

	cmd := CompileMarkdownCommand{Files: []string{"post.md", "blog/entry.md"}}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute compile: %v", err)
	}
	if compiler.directory != 0 {
		t.Fatal("expected directory compile skipped")
	}
	if len(compiler.files) != 2 || compiler.files[1] != "blog/entry.md" {
		t.Fatalf("unexpected compiled files %v", compiler.files)
	}
}

func TestCompileMarkdownHandlerPropagatesErrors(t *testing.T) {
	boom := errors.New("template missing")
	handler := NewCompileMarkdownHandler(&stubCompiler{err: boom}, logging.NoOp())

	err := handler.Execute(context.Background(), CompileMarkdownCommand{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped compiler error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}
