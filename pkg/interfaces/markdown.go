package interfaces

import "context"

// MarkdownParser converts raw Markdown bytes into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown rendering. Option names stay readable for
// YAML configuration and CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// MarkdownCompiler turns Markdown sources into article markup that the
// manifest builder picks up on its next scan.
type MarkdownCompiler interface {
	CompileFile(ctx context.Context, path string) (*CompiledDocument, error)
	CompileDirectory(ctx context.Context) ([]*CompiledDocument, error)
}

// CompiledDocument describes one Markdown source and the markup written for it.
type CompiledDocument struct {
	SourcePath string
	OutputPath string
	Markup     []byte
	// MetaCount is the number of meta elements hoisted to the top level.
	MetaCount int
}
