package manifestcmd

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-contentjson/internal/commands"
	"github.com/goliatone/go-contentjson/internal/logging"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

const (
	buildOperation   = "manifest.build"
	compileOperation = "markdown.compile"
)

var (
	// ErrBuilderRequired is returned when a build handler is constructed without a builder.
	ErrBuilderRequired = errors.New("manifest command: builder is nil")
	// ErrCompilerRequired is returned when a compile handler is constructed without a compiler.
	ErrCompilerRequired = errors.New("manifest command: markdown compiler is nil")
)

var (
	_ command.Commander[BuildManifestCommand]   = (*BuildManifestHandler)(nil)
	_ command.Commander[CompileMarkdownCommand] = (*CompileMarkdownHandler)(nil)
)

// BuildManifestHandler runs manifest builds through the shared command handler foundation.
type BuildManifestHandler struct {
	inner *commands.Handler[BuildManifestCommand]
}

// NewBuildManifestHandler creates a handler bound to the supplied builder.
func NewBuildManifestHandler(builder interfaces.ManifestBuilder, logger interfaces.Logger, opts ...commands.HandlerOption[BuildManifestCommand]) *BuildManifestHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildManifestCommand) error {
		if builder == nil {
			return ErrBuilderRequired
		}
		if msg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, msg.Timeout)
			defer cancel()
		}

		result, err := builder.Build(ctx, interfaces.BuildOptions{DryRun: msg.DryRun})
		if err != nil {
			return err
		}
		if result == nil {
			return nil
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(result)
		}
		logging.WithFields(baseLogger, map[string]any{
			"run_id":        result.RunID,
			"dependencies":  result.Dependencies,
			"articles":      result.Articles,
			"fragments":     result.Fragments,
			"drafts":        result.Drafts,
			"memoized":      result.Memoized,
			"written":       result.Written,
			"duration_ms":   result.Duration.Milliseconds(),
			"document_size": len(result.Document),
		}).Info("manifest.command.build.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildManifestCommand]{
		commands.WithLogger[BuildManifestCommand](baseLogger),
		commands.WithOperation[BuildManifestCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildManifestCommand) map[string]any {
			fields := map[string]any{}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Timeout > 0 {
				fields["timeout"] = msg.Timeout.String()
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildManifestCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildManifestHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildManifestCommand].
func (h *BuildManifestHandler) Execute(ctx context.Context, msg BuildManifestCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CompileMarkdownHandler compiles Markdown sources into article markup.
type CompileMarkdownHandler struct {
	inner *commands.Handler[CompileMarkdownCommand]
}

// NewCompileMarkdownHandler creates a handler bound to the supplied compiler.
func NewCompileMarkdownHandler(compiler interfaces.MarkdownCompiler, logger interfaces.Logger, opts ...commands.HandlerOption[CompileMarkdownCommand]) *CompileMarkdownHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CompileMarkdownCommand) error {
		if compiler == nil {
			return ErrCompilerRequired
		}

		started := time.Now()
		var compiled []*interfaces.CompiledDocument
		if len(msg.Files) == 0 {
			docs, err := compiler.CompileDirectory(ctx)
			if err != nil {
				return err
			}
			compiled = docs
		} else {
			for _, file := range msg.Files {
				doc, err := compiler.CompileFile(ctx, file)
				if err != nil {
					return err
				}
				compiled = append(compiled, doc)
			}
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(compiled)
		}

		logging.WithFields(baseLogger, map[string]any{
			"compiled_count": len(compiled),
			"duration_ms":    time.Since(started).Milliseconds(),
		}).Info("markdown.command.compile.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[CompileMarkdownCommand]{
		commands.WithLogger[CompileMarkdownCommand](baseLogger),
		commands.WithOperation[CompileMarkdownCommand](compileOperation),
		commands.WithMessageFields(func(msg CompileMarkdownCommand) map[string]any {
			if len(msg.Files) == 0 {
				return map[string]any{"scope": "directory"}
			}
			return map[string]any{
				"scope":      "files",
				"file_count": len(msg.Files),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CompileMarkdownCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CompileMarkdownHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CompileMarkdownCommand].
func (h *CompileMarkdownHandler) Execute(ctx context.Context, msg CompileMarkdownCommand) error {
	return h.inner.Execute(ctx, msg)
}
