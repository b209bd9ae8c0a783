package scan

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultManifestName is the file name of the generated manifest.
const DefaultManifestName = "content.json"

// DefaultDependencyPrefix marks files declared as front-end dependencies.
const DefaultDependencyPrefix = "mydeps"

// defaultTemplateNames are the template scaffolding files that live next to
// the content but never describe content themselves.
var defaultTemplateNames = []string{
	"default.html",
	"default-md.html",
	"default-md.md",
	"default-md.template.jst",
	"defaultFragment.html",
	"defaultFragment-md.html",
	"defaultFragment-md.md",
	"defaultFragment-md.template.jst",
}

// FilterConfig declares which files under the content root are candidates.
// Patterns use glob syntax with '/' as separator, so '*' stays within one
// path segment and '**' crosses segments. Matching is case-insensitive.
type FilterConfig struct {
	// IgnoreNames are exact relative paths that are always skipped.
	IgnoreNames []string
	// IgnorePatterns exclude a path when any of them matches.
	IgnorePatterns []string
	// IncludePatterns admit a path when any of them matches.
	IncludePatterns []string
}

// DefaultFilterConfig reproduces the rules the front-end loader expects.
func DefaultFilterConfig(manifestName, dependencyPrefix string) FilterConfig {
	if strings.TrimSpace(manifestName) == "" {
		manifestName = DefaultManifestName
	}
	if strings.TrimSpace(dependencyPrefix) == "" {
		dependencyPrefix = DefaultDependencyPrefix
	}
	names := append([]string{manifestName}, defaultTemplateNames...)
	return FilterConfig{
		IgnoreNames:     names,
		IgnorePatterns:  []string{"default**", "**.ts", "**.map"},
		IncludePatterns: []string{"**.html", "**.htm", dependencyPrefix + "**"},
	}
}

// Filter is a compiled FilterConfig.
type Filter struct {
	names   map[string]struct{}
	ignore  []glob.Glob
	include []glob.Glob
}

// NewFilter compiles cfg.
func NewFilter(cfg FilterConfig) (*Filter, error) {
	f := &Filter{names: make(map[string]struct{}, len(cfg.IgnoreNames))}
	for _, name := range cfg.IgnoreNames {
		f.names[name] = struct{}{}
	}

	var err error
	if f.ignore, err = compilePatterns(cfg.IgnorePatterns); err != nil {
		return nil, err
	}
	if f.include, err = compilePatterns(cfg.IncludePatterns); err != nil {
		return nil, err
	}
	return f, nil
}

// DefaultFilter compiles DefaultFilterConfig.
func DefaultFilter(manifestName, dependencyPrefix string) *Filter {
	f, err := NewFilter(DefaultFilterConfig(manifestName, dependencyPrefix))
	if err != nil {
		panic(fmt.Sprintf("scan: default filter: %v", err))
	}
	return f
}

// Accept reports whether the slash-separated relative path is a candidate.
func (f *Filter) Accept(rel string) bool {
	if f == nil {
		return false
	}
	if _, ignored := f.names[rel]; ignored {
		return false
	}
	lower := strings.ToLower(rel)
	for _, g := range f.ignore {
		if g.Match(lower) {
			return false
		}
	}
	for _, g := range f.include {
		if g.Match(lower) {
			return true
		}
	}
	return false
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(strings.ToLower(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("scan: compile pattern %q: %w", pattern, err)
		}
		out = append(out, g)
	}
	return out, nil
}
