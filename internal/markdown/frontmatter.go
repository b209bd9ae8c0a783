package markdown

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-contentjson/internal/manifest"
)

// SplitFrontMatter separates YAML front matter from the Markdown body. A
// source without front matter returns an empty map and the source unchanged.
func SplitFrontMatter(source []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("markdown: parse front matter: %w", err)
	}
	return meta, body, nil
}

// FrontMatterMetas renders front matter entries as meta elements, sorted by
// key. Lists are joined with ", ", false booleans and nested maps are dropped
// so that a "draft: false" entry does not mark the article as a draft.
func FrontMatterMetas(meta map[string]any) []string {
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tags := make([]string, 0, len(keys))
	for _, key := range keys {
		value, ok := metaValue(meta[key])
		if !ok {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(key))
		if name == "" {
			continue
		}
		tags = append(tags, fmt.Sprintf(`<meta name="%s" content="%s"/>`, html.EscapeString(name), html.EscapeString(value)))
	}
	return tags
}

func metaValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		if !v {
			return "", false
		}
		return "true", true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case time.Time:
		return manifest.FormatTimestamp(v), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := metaValue(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), len(parts) > 0
	default:
		return "", false
	}
}
