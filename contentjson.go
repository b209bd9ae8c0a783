// Package contentjson builds the content manifest consumed by the front-end
// loader and compiles Markdown sources into article markup.
package contentjson

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-contentjson/internal/builder"
	"github.com/goliatone/go-contentjson/internal/commands"
	manifestcmd "github.com/goliatone/go-contentjson/internal/commands/manifest"
	"github.com/goliatone/go-contentjson/internal/logging"
	"github.com/goliatone/go-contentjson/internal/markdown"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

// BuildOptions exports the per-run build options.
type BuildOptions = interfaces.BuildOptions

// BuildResult exports the build summary.
type BuildResult = interfaces.BuildResult

// ManifestStore exports the manifest persistence contract.
type ManifestStore = interfaces.ManifestStore

// CommandHandlers exports the command handlers wired by New.
type CommandHandlers = manifestcmd.HandlerSet

// Option overrides collaborators selected from configuration.
type Option func(*options)

type options struct {
	provider interfaces.LoggerProvider
	store    interfaces.ManifestStore
	content  fs.FS
	registry manifestcmd.CommandRegistry
}

// WithLoggerProvider replaces the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithStore replaces the store built from Config.Storage.
func WithStore(store interfaces.ManifestStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithContentFS scans fsys instead of Config.ContentDir. Markdown compilation
// still reads and writes Config.ContentDir.
func WithContentFS(fsys fs.FS) Option {
	return func(o *options) {
		o.content = fsys
	}
}

// WithCommandRegistry registers the command handlers with reg during New.
func WithCommandRegistry(reg manifestcmd.CommandRegistry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// Module is the runtime façade over the builder, the Markdown compiler and
// their command handlers.
type Module struct {
	cfg      Config
	builder  *builder.Service
	compiler *markdown.Compiler
	handlers *manifestcmd.HandlerSet
	logger   interfaces.Logger
	closers  []func() error
}

// New validates cfg and wires every collaborator.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	provider := o.provider
	if provider == nil {
		var err error
		provider, err = newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
	}

	m := &Module{
		cfg:    cfg,
		logger: logging.ModuleLogger(provider, "module"),
	}

	store := o.store
	if store == nil {
		opened, closer, err := openStore(context.Background(), cfg, logging.StorageLogger(provider))
		if err != nil {
			return nil, err
		}
		store = opened
		if closer != nil {
			m.closers = append(m.closers, closer)
		}
	}

	filter, err := newFilter(cfg)
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	content := o.content
	if content == nil {
		content = os.DirFS(cfg.ContentDir)
	}

	m.builder = builder.NewService(builder.Config{
		ManifestPrefix:       cfg.ManifestPathPrefix,
		DependencyPrefix:     cfg.DependencyPrefix,
		SkipSchemaValidation: cfg.Build.SkipSchemaValidation,
	}, builder.Dependencies{
		Content: content,
		Filter:  filter,
		Store:   store,
		Logger:  logging.BuilderLogger(provider),
	})

	compiler, err := markdown.NewCompiler(markdown.Config{
		ContentDir: cfg.ContentDir,
		Template:   cfg.Markdown.Template,
		Loader: markdown.LoaderConfig{
			Pattern: cfg.Markdown.Pattern,
			Exclude: cfg.Markdown.Exclude,
		},
		Parser: interfaces.ParseOptions{
			Extensions: cfg.Markdown.Extensions,
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
		},
	}, markdown.WithLogger(logging.MarkdownLogger(provider)))
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("initialise markdown compiler: %w", err)
	}
	m.compiler = compiler

	handlers, err := manifestcmd.RegisterManifestCommands(o.registry, m.builder, compiler, provider,
		manifestcmd.WithBuildHandlerOptions(commands.WithTimeout[manifestcmd.BuildManifestCommand](cfg.Build.Timeout)),
	)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	m.handlers = handlers

	return m, nil
}

// Config returns the validated configuration the module was built from.
func (m *Module) Config() Config {
	return m.cfg
}

// Builder returns the manifest builder.
func (m *Module) Builder() interfaces.ManifestBuilder {
	return m.builder
}

// Compiler returns the Markdown compiler.
func (m *Module) Compiler() interfaces.MarkdownCompiler {
	return m.compiler
}

// Commands returns the command handlers.
func (m *Module) Commands() *CommandHandlers {
	return m.handlers
}

// Build runs the builder once.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return m.builder.Build(ctx, opts)
}

// Close releases store connections opened by New.
func (m *Module) Close() error {
	if m == nil {
		return nil
	}
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	if len(errs) > 0 {
		m.logger.Warn("module.close.failed", "errors", len(errs))
	}
	return errors.Join(errs...)
}
