package extract

import (
	"strings"

	"github.com/goliatone/go-contentjson/internal/markup"
)

type metaEntry struct {
	name       string
	content    string
	hasContent bool
}

// metaEntries returns every named meta element in document order with the
// name lowercased. Unnamed metas (charset, http-equiv) are skipped.
func metaEntries(doc *markup.Document) []metaEntry {
	var entries []metaEntry
	for _, el := range doc.Find("meta") {
		name, ok := el.Attr("name")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			continue
		}
		content, hasContent := el.Attr("content")
		entries = append(entries, metaEntry{name: name, content: content, hasContent: hasContent})
	}
	return entries
}
