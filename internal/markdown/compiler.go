package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-contentjson/internal/logging"
	"github.com/goliatone/go-contentjson/internal/markup"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

const (
	// ContentPlaceholder marks where rendered Markdown goes in the template.
	ContentPlaceholder = "<%=content%>"
	// DefaultTemplateName is looked up in the content directory when no
	// template path is configured.
	DefaultTemplateName = "default-md.template.jst"

	metaContainerID = "meta"
)

// ErrTemplatePlaceholder is returned for a non-empty template that does not
// contain ContentPlaceholder.
var ErrTemplatePlaceholder = errors.New("markdown: template has no " + ContentPlaceholder + " placeholder")

// Config controls a Compiler.
type Config struct {
	// ContentDir holds the Markdown sources; outputs are written next to them.
	ContentDir string
	// Template is the page template path. Empty means DefaultTemplateName
	// inside ContentDir, and a missing default template falls back to the
	// bare placeholder.
	Template string
	Loader   LoaderConfig
	Parser   interfaces.ParseOptions
}

// Compiler implements interfaces.MarkdownCompiler.
type Compiler struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
	logger interfaces.Logger
}

var _ interfaces.MarkdownCompiler = (*Compiler)(nil)

// CompilerOption customises a Compiler.
type CompilerOption func(*Compiler)

// WithParser swaps the Markdown renderer.
func WithParser(parser interfaces.MarkdownParser) CompilerOption {
	return func(c *Compiler) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithLogger sets the compiler logger.
func WithLogger(logger interfaces.Logger) CompilerOption {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCompiler wires a Compiler over cfg.ContentDir.
func NewCompiler(cfg Config, opts ...CompilerOption) (*Compiler, error) {
	dir := strings.TrimSpace(cfg.ContentDir)
	if dir == "" {
		return nil, errors.New("markdown: content directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("markdown: content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("markdown: %s is not a directory", dir)
	}
	cfg.ContentDir = dir

	loader, err := NewLoader(os.DirFS(dir), cfg.Loader)
	if err != nil {
		return nil, err
	}
	c := &Compiler{
		cfg:    cfg,
		parser: NewGoldmarkParser(cfg.Parser),
		loader: loader,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CompileFile compiles one source given relative to the content directory.
func (c *Compiler) CompileFile(ctx context.Context, rel string) (*interfaces.CompiledDocument, error) {
	template, err := c.loadTemplate()
	if err != nil {
		return nil, err
	}
	source, err := c.loader.LoadFile(ctx, rel)
	if err != nil {
		return nil, err
	}
	return c.compile(source, template)
}

// CompileDirectory compiles every source found by the loader.
func (c *Compiler) CompileDirectory(ctx context.Context) ([]*interfaces.CompiledDocument, error) {
	template, err := c.loadTemplate()
	if err != nil {
		return nil, err
	}
	sources, err := c.loader.LoadDirectory(ctx)
	if err != nil {
		return nil, err
	}

	compiled := make([]*interfaces.CompiledDocument, 0, len(sources))
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := c.compile(source, template)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, doc)
	}
	c.logger.Info("markdown.compile.completed", "documents", len(compiled))
	return compiled, nil
}

func (c *Compiler) compile(source Source, template string) (*interfaces.CompiledDocument, error) {
	logger := logging.WithContentFile(c.logger, source.Path, "markdown")

	meta, body, err := SplitFrontMatter(source.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source.Path, err)
	}
	rendered, err := c.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source.Path, err)
	}

	page := strings.Replace(template, ContentPlaceholder, string(rendered), 1)
	output, metaCount, err := PostCompile(page, FrontMatterMetas(meta))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source.Path, err)
	}

	outputRel := strings.TrimSuffix(source.Path, path.Ext(source.Path)) + ".html"
	target := filepath.Join(c.cfg.ContentDir, filepath.FromSlash(outputRel))
	if err := os.WriteFile(target, output, 0o644); err != nil {
		return nil, fmt.Errorf("markdown: write %s: %w", outputRel, err)
	}
	logger.Debug("markdown.compile.written", "output", outputRel, "metas", metaCount)

	return &interfaces.CompiledDocument{
		SourcePath: source.Path,
		OutputPath: outputRel,
		Markup:     output,
		MetaCount:  metaCount,
	}, nil
}

func (c *Compiler) loadTemplate() (string, error) {
	templatePath := strings.TrimSpace(c.cfg.Template)
	explicit := templatePath != ""
	if !explicit {
		templatePath = filepath.Join(c.cfg.ContentDir, DefaultTemplateName)
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("markdown.template.default_missing", "template", templatePath)
			return ContentPlaceholder, nil
		}
		return "", fmt.Errorf("markdown: read template %s: %w", templatePath, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ContentPlaceholder, nil
	}
	template := string(data)
	if !strings.Contains(template, ContentPlaceholder) {
		return "", fmt.Errorf("%w: %s", ErrTemplatePlaceholder, templatePath)
	}
	return template, nil
}

// PostCompile hoists the meta elements of every div#meta container to the
// top, drops the containers and wraps the remaining body in an article
// element. extraMetas are emitted before the hoisted ones.
func PostCompile(page string, extraMetas []string) ([]byte, int, error) {
	doc, err := markup.ParseFragment([]byte(page))
	if err != nil {
		return nil, 0, err
	}

	metas := append([]string(nil), extraMetas...)
	for _, div := range doc.Find("div") {
		if div.ID() != metaContainerID {
			continue
		}
		for _, meta := range div.Find("meta") {
			rendered, err := meta.OuterHTML()
			if err != nil {
				return nil, 0, err
			}
			metas = append(metas, rendered)
		}
		div.Remove()
	}

	body, err := doc.HTML()
	if err != nil {
		return nil, 0, err
	}

	var out strings.Builder
	out.WriteString(strings.Join(metas, "\n"))
	out.WriteString("\n\n<article>\n")
	out.WriteString(strings.TrimSpace(body))
	out.WriteString("\n</article>")
	return []byte(out.String()), len(metas), nil
}
