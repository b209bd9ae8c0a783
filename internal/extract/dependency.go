package extract

import (
	"path"
	"strings"

	"github.com/goliatone/go-contentjson/internal/manifest"
)

var dependencyTypes = map[string]struct{}{
	"css":  {},
	"html": {},
	"js":   {},
}

// ExtractDependency types a dependency by its extension. Unknown extensions
// keep the bare path.
func ExtractDependency(manifestPath string) manifest.Dependency {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(manifestPath), "."))
	if _, ok := dependencyTypes[ext]; ok {
		return manifest.Dependency{Path: manifestPath, Type: ext}
	}
	return manifest.Dependency{Path: manifestPath}
}
