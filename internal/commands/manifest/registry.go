package manifestcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-contentjson/internal/commands"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the handlers produced by RegisterManifestCommands.
type HandlerSet struct {
	Build   *BuildManifestHandler
	Compile *CompileMarkdownHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	buildHandlerOpts   []commands.HandlerOption[BuildManifestCommand]
	compileHandlerOpts []commands.HandlerOption[CompileMarkdownCommand]
}

// WithBuildHandlerOptions forwards options to the BuildManifestHandler constructor.
func WithBuildHandlerOptions(opts ...commands.HandlerOption[BuildManifestCommand]) Option {
	return func(cfg *options) {
		cfg.buildHandlerOpts = append(cfg.buildHandlerOpts, opts...)
	}
}

// WithCompileHandlerOptions forwards options to the CompileMarkdownHandler constructor.
func WithCompileHandlerOptions(opts ...commands.HandlerOption[CompileMarkdownCommand]) Option {
	return func(cfg *options) {
		cfg.compileHandlerOpts = append(cfg.compileHandlerOpts, opts...)
	}
}

// RegisterManifestCommands builds the manifest and markdown handlers and registers them
// with reg. The compile handler is only created when a compiler is supplied.
func RegisterManifestCommands(reg CommandRegistry, builder interfaces.ManifestBuilder, compiler interfaces.MarkdownCompiler, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if builder == nil {
		return nil, errors.New("manifest command registration: builder is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	set := &HandlerSet{
		Build: NewBuildManifestHandler(builder, commands.CommandLogger(provider, "manifest"), cfg.buildHandlerOpts...),
	}
	if compiler != nil {
		set.Compile = NewCompileMarkdownHandler(compiler, commands.CommandLogger(provider, "markdown"), cfg.compileHandlerOpts...)
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Build); err != nil {
			return nil, err
		}
		if set.Compile != nil {
			if err := reg.RegisterCommand(set.Compile); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}

// RegisterManifestCron schedules periodic rebuilds through a cron registrar. The handler is
// executed with a background context.
func RegisterManifestCron(reg CronRegistrar, handler *BuildManifestHandler, cfg command.HandlerConfig, msg BuildManifestCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
