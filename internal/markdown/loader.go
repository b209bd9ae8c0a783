package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// LoaderConfig selects the Markdown sources of a content directory.
type LoaderConfig struct {
	// Pattern selects sources by slash-separated relative path. Defaults to "**.md".
	Pattern string
	// Exclude drops sources whose base name matches. Defaults to "default*md",
	// which keeps the template scaffolding out of the output.
	Exclude string
}

// Source is one Markdown file read from the content directory.
type Source struct {
	Path string
	Data []byte
}

// Loader discovers Markdown sources inside an fs.FS.
type Loader struct {
	fs      fs.FS
	pattern glob.Glob
	exclude glob.Glob
}

// NewLoader compiles the discovery patterns.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) (*Loader, error) {
	patternExpr := strings.TrimSpace(cfg.Pattern)
	if patternExpr == "" {
		patternExpr = "**.md"
	}
	excludeExpr := strings.TrimSpace(cfg.Exclude)
	if excludeExpr == "" {
		excludeExpr = "default*md"
	}

	pattern, err := glob.Compile(patternExpr, '/')
	if err != nil {
		return nil, fmt.Errorf("markdown: compile pattern %q: %w", patternExpr, err)
	}
	exclude, err := glob.Compile(excludeExpr, '/')
	if err != nil {
		return nil, fmt.Errorf("markdown: compile exclude %q: %w", excludeExpr, err)
	}
	return &Loader{fs: filesystem, pattern: pattern, exclude: exclude}, nil
}

// Matches reports whether rel is a Markdown source handled by the loader.
func (l *Loader) Matches(rel string) bool {
	return l.pattern.Match(rel) && !l.exclude.Match(path.Base(rel))
}

// LoadFile reads a single source.
func (l *Loader) LoadFile(ctx context.Context, rel string) (Source, error) {
	if err := ctx.Err(); err != nil {
		return Source{}, err
	}
	rel = strings.TrimPrefix(path.Clean(strings.ReplaceAll(rel, "\\", "/")), "./")
	if !fs.ValidPath(rel) {
		return Source{}, fmt.Errorf("markdown: invalid source path %q", rel)
	}
	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return Source{}, fmt.Errorf("markdown: read %s: %w", rel, err)
	}
	return Source{Path: rel, Data: data}, nil
}

// LoadDirectory reads every matching source in lexical order.
func (l *Loader) LoadDirectory(ctx context.Context) ([]Source, error) {
	var sources []Source
	err := fs.WalkDir(l.fs, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !l.Matches(p) {
			return nil
		}
		source, err := l.LoadFile(ctx, p)
		if err != nil {
			return err
		}
		sources = append(sources, source)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}
