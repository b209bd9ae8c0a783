package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	manifestcmd "github.com/goliatone/go-contentjson/internal/commands/manifest"
	"github.com/goliatone/go-contentjson/internal/logging/console"
	"github.com/goliatone/go-contentjson/internal/runtimeconfig"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

func TestBuildModuleWiresBuildHandler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "post.html"), []byte(`<article>Body.</article>`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	module, err := BuildModule(Options{
		ContentDir:     dir,
		EnvFiles:       []string{filepath.Join(dir, "missing.env")},
		LoggerProvider: console.NewProvider(console.Options{Writer: &bytes.Buffer{}}),
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	var result *interfaces.BuildResult
	err = module.Commands().Build.Execute(context.Background(), manifestcmd.BuildManifestCommand{
		ResultCallback: func(r *interfaces.BuildResult) { result = r },
	})
	if err != nil {
		t.Fatalf("execute build: %v", err)
	}
	if result == nil || result.Articles != 1 || !result.Written {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := os.Stat(filepath.Join(dir, "content.json")); err != nil {
		t.Fatalf("expected manifest written: %v", err)
	}
}

func TestResolveConfigAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "contentjson.yaml")
	if err := os.WriteFile(cfgPath, []byte("content_dir: from-file\nmanifest_name: site.json\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := ResolveConfig(Options{
		ConfigPath: cfgPath,
		EnvFiles:   []string{filepath.Join(dir, "missing.env")},
		ContentDir: "from-flag",
		Template:   "page.jst",
		LogFormat:  "json",
		LogLevel:   "debug",
	})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.ContentDir != "from-flag" || cfg.ManifestName != "site.json" || cfg.Markdown.Template != "page.jst" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Logging.Provider != "gologger" || cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestResolveConfigValidates(t *testing.T) {
	_, err := ResolveConfig(Options{
		EnvFiles:  []string{"missing.env"},
		LogLevel:  "loud",
		LogFormat: "json",
	})
	if !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}
