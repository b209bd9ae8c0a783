// Package extract classifies candidate files and turns them into manifest
// records.
package extract

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-contentjson/internal/manifest"
	"github.com/goliatone/go-contentjson/internal/markup"
)

// Classify decides the record kind of a file. Dependencies are recognised by
// path alone and return a nil document; everything else is parsed.
func Classify(path string, data []byte, dependencyPrefix string) (manifest.Kind, *markup.Document, error) {
	if dependencyPrefix != "" && strings.HasPrefix(path, dependencyPrefix) {
		return manifest.KindDependency, nil, nil
	}

	doc, err := markup.Parse(data)
	if err != nil {
		return "", nil, fmt.Errorf("extract: parse markup: %w", err)
	}
	switch {
	case doc.Has("article"):
		return manifest.KindArticle, doc, nil
	case doc.Has("fragment"):
		return manifest.KindFragment, doc, nil
	default:
		return "", nil, ErrUnclassifiable
	}
}
