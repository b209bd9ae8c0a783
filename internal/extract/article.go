package extract

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-contentjson/internal/manifest"
	"github.com/goliatone/go-contentjson/internal/markup"
	"github.com/goliatone/go-contentjson/internal/scan"
)

const (
	// TeaserLimit is the maximum teaser length in characters.
	TeaserLimit = 150
	// AutoLastModified asks for the memoized timestamp.
	AutoLastModified = "auto"
)

var lastModifiedName = regexp.MustCompile(`last-?modified`)

// lastModifiedLayouts are tried in order for explicit dates. Layouts without
// a zone are read as UTC.
var lastModifiedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006/01/02",
}

// LastModSource records how an article's lastMod was resolved.
type LastModSource int

const (
	LastModModTime LastModSource = iota
	LastModExplicit
	LastModMemoized
)

func (s LastModSource) String() string {
	switch s {
	case LastModExplicit:
		return "explicit"
	case LastModMemoized:
		return "memoized"
	default:
		return "mtime"
	}
}

// LastModLookup resolves a content hash to the lastMod recorded by a prior
// run. *manifest.Memory implements it.
type LastModLookup interface {
	LastMod(hash string) (string, bool)
}

// ArticleExtractor builds Article records.
type ArticleExtractor struct {
	// Prefix is prepended to the relative path to form the manifest path.
	Prefix string
	Memory LastModLookup
}

// Extract reads the article's metadata. It never looks at other files.
func (x ArticleExtractor) Extract(src scan.Candidate, doc *markup.Document) (manifest.Article, LastModSource, error) {
	sum := sha1.Sum(src.Data)
	article := manifest.Article{
		Path: x.Prefix + src.Path,
		Hash: hex.EncodeToString(sum[:]),
	}

	var (
		declared   string
		hasLastMod bool
		extra      = manifest.Fields{}
	)
	for _, meta := range metaEntries(doc) {
		switch {
		case lastModifiedName.MatchString(meta.name):
			declared, hasLastMod = meta.content, true
			if !meta.hasContent {
				return manifest.Article{}, 0, fmt.Errorf("%w: %s has no content", ErrInvalidLastModified, meta.name)
			}
		case meta.name == "urlname":
			article.URLName = meta.content
		case meta.name == "title":
			article.Title = meta.content
		case meta.name == "draft":
			article.Draft = true
		default:
			if meta.hasContent {
				extra[meta.name] = meta.content
			}
		}
	}
	if len(extra) > 0 {
		article.Extra = extra
	}

	lastMod, source, err := x.resolveLastMod(article.Hash, declared, hasLastMod, src.ModTime)
	if err != nil {
		return manifest.Article{}, 0, err
	}
	article.LastMod = lastMod
	article.Teaser = Teaser(doc.First("article"))

	if article.URLName == "" {
		article.URLName = src.Path
	}
	if article.Title == "" {
		article.Title = src.Path
	}
	return article, source, nil
}

func (x ArticleExtractor) resolveLastMod(hash, declared string, present bool, modTime time.Time) (string, LastModSource, error) {
	if !present {
		return manifest.FormatTimestamp(modTime), LastModModTime, nil
	}
	if strings.TrimSpace(declared) == AutoLastModified {
		if x.Memory != nil {
			if prior, ok := x.Memory.LastMod(hash); ok {
				return prior, LastModMemoized, nil
			}
		}
		return manifest.FormatTimestamp(modTime), LastModModTime, nil
	}
	parsed, err := ParseLastModified(declared)
	if err != nil {
		return "", 0, err
	}
	return manifest.FormatTimestamp(parsed), LastModExplicit, nil
}

// ParseLastModified parses an explicit last-modified value.
func ParseLastModified(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range lastModifiedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidLastModified, value)
}

// Teaser returns the plain text of el with whitespace collapsed, cut to
// TeaserLimit characters. A cut teaser ends at the last period inside the
// window when there is one past the first character.
func Teaser(el *markup.Element) string {
	if el == nil {
		return ""
	}
	text := strings.Join(strings.Fields(el.Text()), " ")
	runes := []rune(text)
	if len(runes) <= TeaserLimit {
		return text
	}
	window := runes[:TeaserLimit]
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == '.' {
			return string(window[:i+1])
		}
	}
	return string(window)
}
