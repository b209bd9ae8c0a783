package markdown

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

// GoldmarkParser implements interfaces.MarkdownParser with goldmark. Engines
// are built once per distinct option set and shared afterwards.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
	engines        sync.Map
}

var _ interfaces.MarkdownParser = (*GoldmarkParser)(nil)

// NewGoldmarkParser constructs a parser. Without explicit extensions the GFM
// set, linkify and task lists are enabled, and raw HTML passes through unless
// SafeMode is set.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{defaultOptions: defaults}
}

// Parse renders Markdown with the parser defaults.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaultOptions)
}

// ParseWithOptions renders Markdown with opts.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	engine := p.engine(opts)
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown: render: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *GoldmarkParser) engine(opts interfaces.ParseOptions) goldmark.Markdown {
	key := optionsKey(opts)
	if cached, ok := p.engines.Load(key); ok {
		return cached.(goldmark.Markdown)
	}
	engine, _ := p.engines.LoadOrStore(key, newGoldmarkEngine(opts))
	return engine.(goldmark.Markdown)
}

func optionsKey(opts interfaces.ParseOptions) string {
	names := normaliseExtensions(opts.Extensions)
	return fmt.Sprintf("%s|hard=%t|safe=%t", strings.Join(names, ","), opts.HardWraps, opts.SafeMode)
}

func newGoldmarkEngine(opts interfaces.ParseOptions) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

var defaultExtensions = []string{"gfm", "linkify", "tasklist"}

// normaliseExtensions lowercases, de-duplicates and drops unknown names while
// keeping the caller's order.
func normaliseExtensions(names []string) []string {
	if len(names) == 0 {
		return defaultExtensions
	}
	var out []string
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, known := extensionRegistry[key]; !known || slices.Contains(out, key) {
			continue
		}
		out = append(out, key)
	}
	return out
}

func collectExtensions(names []string) []goldmark.Extender {
	keys := normaliseExtensions(names)
	extenders := make([]goldmark.Extender, 0, len(keys))
	for _, key := range keys {
		extenders = append(extenders, extensionRegistry[key])
	}
	return extenders
}
