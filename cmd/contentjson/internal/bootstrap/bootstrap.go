// Package bootstrap resolves CLI configuration and constructs the contentjson
// module used by the command line.
package bootstrap

import (
	"strings"

	"github.com/goliatone/go-contentjson"
	"github.com/goliatone/go-contentjson/internal/runtimeconfig"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

// Options captures CLI overrides applied on top of the loaded configuration.
type Options struct {
	ConfigPath     string
	EnvFiles       []string
	ContentDir     string
	Template       string
	LogLevel       string
	LogFormat      string
	LoggerProvider interfaces.LoggerProvider
}

// BuildModule loads configuration, applies opts and constructs the module.
func BuildModule(opts Options) (*contentjson.Module, error) {
	cfg, err := ResolveConfig(opts)
	if err != nil {
		return nil, err
	}

	var moduleOpts []contentjson.Option
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, contentjson.WithLoggerProvider(opts.LoggerProvider))
	}
	return contentjson.New(cfg, moduleOpts...)
}

// ResolveConfig layers defaults, the YAML file, .env files, CONTENTJSON_*
// variables and finally the CLI overrides. The result is validated.
func ResolveConfig(opts Options) (contentjson.Config, error) {
	cfg := runtimeconfig.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := runtimeconfig.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := runtimeconfig.ApplyEnv(&cfg, opts.EnvFiles...); err != nil {
		return cfg, err
	}

	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.ContentDir = dir
	}
	if tpl := strings.TrimSpace(opts.Template); tpl != "" {
		cfg.Markdown.Template = tpl
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = format
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
