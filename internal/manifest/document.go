package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Top-level keys of content.json, fixed by the front-end loader.
const (
	KeyDependencies = "mydeps"
	KeyArticles     = "metaArticles"
	KeyFragments    = "metaFragments"
)

// Document is the aggregated manifest.
type Document struct {
	Dependencies []Dependency `json:"mydeps"`
	Articles     []Article    `json:"metaArticles"`
	Fragments    []Fragment   `json:"metaFragments"`
}

// Marshal serializes the document compactly. Empty collections are written
// as [] rather than null.
func (d *Document) Marshal() ([]byte, error) {
	out := Document{
		Dependencies: d.Dependencies,
		Articles:     d.Articles,
		Fragments:    d.Fragments,
	}
	if out.Dependencies == nil {
		out.Dependencies = []Dependency{}
	}
	if out.Articles == nil {
		out.Articles = []Article{}
	}
	if out.Fragments == nil {
		out.Fragments = []Fragment{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("manifest: marshal document: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Len returns the number of records across all collections.
func (d *Document) Len() int {
	return len(d.Dependencies) + len(d.Articles) + len(d.Fragments)
}
