package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-contentjson/cmd/contentjson/internal/bootstrap"
	manifestcmd "github.com/goliatone/go-contentjson/internal/commands/manifest"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

var version = "dev"

type buildHandler interface {
	Execute(context.Context, manifestcmd.BuildManifestCommand) error
}

type compileHandler interface {
	Execute(context.Context, manifestcmd.CompileMarkdownCommand) error
}

type handlerSet struct {
	build   buildHandler
	compile compileHandler
}

type moduleResources struct {
	handlers handlerSet
	close    func() error
}

type moduleOptions = bootstrap.Options

var moduleBuilder = buildModule

var stdout io.Writer = os.Stdout

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("contentjson: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("missing subcommand (build, markdown, all, version, help)")
	}

	switch args[0] {
	case "build":
		return runBuild(args[1:])
	case "markdown":
		return runMarkdown(args[1:])
	case "all":
		return runAll(args[1:])
	case "version":
		fmt.Fprintf(stdout, "contentjson %s\n", version)
		return nil
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: contentjson <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  build      scan the content directory and write the manifest")
	fmt.Fprintln(w, "  markdown   compile Markdown sources into article markup")
	fmt.Fprintln(w, "  all        compile Markdown, then build the manifest")
	fmt.Fprintln(w, "  version    print the version")
}

type commonFlags struct {
	config     *string
	envFile    *string
	contentDir *string
	template   *string
	logLevel   *string
	logFormat  *string
}

func registerCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		config:     fs.String("config", "", "Path to a YAML configuration file"),
		envFile:    fs.String("env-file", "", "Comma separated .env files (defaults to .env)"),
		contentDir: fs.String("content-dir", "", "Content directory (overrides configuration)"),
		template:   fs.String("template", "", "Markdown page template (overrides configuration)"),
		logLevel:   fs.String("log-level", "", "Log level (trace, debug, info, warn, error)"),
		logFormat:  fs.String("log-format", "", "go-logger format (json, console, pretty)"),
	}
}

func (f commonFlags) options() moduleOptions {
	return moduleOptions{
		ConfigPath: *f.config,
		EnvFiles:   splitList(*f.envFile),
		ContentDir: *f.contentDir,
		Template:   *f.template,
		LogLevel:   *f.logLevel,
		LogFormat:  *f.logFormat,
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Assemble and validate without writing the manifest")
	timeout := fs.Duration("timeout", 0, "Abort the build after this duration (0 keeps the configured timeout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, err := openModule(common.options())
	if err != nil {
		return err
	}
	defer resources.release()

	return executeBuild(resources, *dryRun, *timeout)
}

func runMarkdown(args []string) error {
	fs := flag.NewFlagSet("markdown", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, err := openModule(common.options())
	if err != nil {
		return err
	}
	defer resources.release()

	return executeCompile(resources, fs.Args())
}

func runAll(args []string) error {
	fs := flag.NewFlagSet("all", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Assemble and validate without writing the manifest")
	timeout := fs.Duration("timeout", 0, "Abort the build after this duration (0 keeps the configured timeout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, err := openModule(common.options())
	if err != nil {
		return err
	}
	defer resources.release()

	if err := executeCompile(resources, nil); err != nil {
		return err
	}
	return executeBuild(resources, *dryRun, *timeout)
}

func executeBuild(resources *moduleResources, dryRun bool, timeout time.Duration) error {
	if resources.handlers.build == nil {
		return errors.New("build handler not configured")
	}
	cmd := manifestcmd.BuildManifestCommand{
		DryRun:  dryRun,
		Timeout: timeout,
		ResultCallback: func(result *interfaces.BuildResult) {
			log.Printf("module=manifest operation=build summary run_id=%s dependencies=%d articles=%d fragments=%d drafts=%d memoized=%d written=%t duration=%s",
				result.RunID, result.Dependencies, result.Articles, result.Fragments, result.Drafts, result.Memoized, result.Written, result.Duration)
			if dryRun {
				fmt.Fprintln(stdout, string(result.Document))
			}
		},
	}
	if err := resources.handlers.build.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}
	return nil
}

func executeCompile(resources *moduleResources, files []string) error {
	if resources.handlers.compile == nil {
		return errors.New("markdown handler not configured")
	}
	cmd := manifestcmd.CompileMarkdownCommand{
		Files: files,
		ResultCallback: func(docs []*interfaces.CompiledDocument) {
			for _, doc := range docs {
				log.Printf("module=markdown operation=compile source=%s output=%s metas=%d", doc.SourcePath, doc.OutputPath, doc.MetaCount)
			}
			log.Printf("module=markdown operation=compile summary compiled=%d", len(docs))
		},
	}
	if err := resources.handlers.compile.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("compile markdown: %w", err)
	}
	return nil
}

func openModule(opts moduleOptions) (*moduleResources, error) {
	resources, err := moduleBuilder(opts)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	if resources == nil {
		return nil, errors.New("bootstrap module: no resources returned")
	}
	return resources, nil
}

func (r *moduleResources) release() {
	if r == nil || r.close == nil {
		return
	}
	if err := r.close(); err != nil {
		log.Printf("module=cli operation=close error=%v", err)
	}
}

func buildModule(opts moduleOptions) (*moduleResources, error) {
	module, err := bootstrap.BuildModule(opts)
	if err != nil {
		return nil, err
	}
	set := module.Commands()
	resources := &moduleResources{
		handlers: handlerSet{
			build: set.Build,
		},
		close: module.Close,
	}
	if set.Compile != nil {
		resources.handlers.compile = set.Compile
	}
	return resources, nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
