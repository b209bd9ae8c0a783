package extract

import (
	"github.com/goliatone/go-contentjson/internal/manifest"
	"github.com/goliatone/go-contentjson/internal/scan"
)

// DefaultManifestPrefix is prepended to content-root relative paths in the
// manifest, matching where the front-end serves the content directory.
const DefaultManifestPrefix = "content/"

// Config wires an Extractor.
type Config struct {
	ManifestPrefix   string
	DependencyPrefix string
	Memory           LastModLookup
}

// Extraction is the record produced for one candidate.
type Extraction struct {
	Record manifest.Record
	// LastMod is only meaningful for articles.
	LastMod LastModSource
}

// Extractor classifies a candidate and dispatches to the matching extractor.
type Extractor struct {
	dependencyPrefix string
	prefix           string
	articles         ArticleExtractor
	fragments        FragmentExtractor
}

// New constructs an Extractor. Empty prefixes fall back to the defaults.
func New(cfg Config) *Extractor {
	prefix := cfg.ManifestPrefix
	if prefix == "" {
		prefix = DefaultManifestPrefix
	}
	depPrefix := cfg.DependencyPrefix
	if depPrefix == "" {
		depPrefix = scan.DefaultDependencyPrefix
	}
	return &Extractor{
		dependencyPrefix: depPrefix,
		prefix:           prefix,
		articles:         ArticleExtractor{Prefix: prefix, Memory: cfg.Memory},
		fragments:        FragmentExtractor{Prefix: prefix},
	}
}

// Extract turns a candidate into a record. Errors are *FileError.
func (e *Extractor) Extract(src scan.Candidate) (Extraction, error) {
	kind, doc, err := Classify(src.Path, src.Data, e.dependencyPrefix)
	if err != nil {
		return Extraction{}, fileError(src.Path, err)
	}

	switch kind {
	case manifest.KindDependency:
		return Extraction{Record: ExtractDependency(e.prefix + src.Path)}, nil
	case manifest.KindArticle:
		article, source, err := e.articles.Extract(src, doc)
		if err != nil {
			return Extraction{}, fileError(src.Path, err)
		}
		return Extraction{Record: article, LastMod: source}, nil
	default:
		fragment, err := e.fragments.Extract(src, doc)
		if err != nil {
			return Extraction{}, fileError(src.Path, err)
		}
		return Extraction{Record: fragment}, nil
	}
}
