package extract

import (
	"fmt"

	"github.com/goliatone/go-contentjson/internal/manifest"
	"github.com/goliatone/go-contentjson/internal/markup"
	"github.com/goliatone/go-contentjson/internal/scan"
)

// FragmentExtractor builds Fragment records.
type FragmentExtractor struct {
	Prefix string
}

// Extract reads the fragment's metadata. An embed meta inlines the fragment
// markup and clears the path.
func (x FragmentExtractor) Extract(src scan.Candidate, doc *markup.Document) (manifest.Fragment, error) {
	path := x.Prefix + src.Path
	fragment := manifest.Fragment{
		Source: src.Path,
		Path:   &path,
	}

	extra := manifest.Fields{}
	embed := false
	for _, meta := range metaEntries(doc) {
		switch meta.name {
		case "embed":
			embed = true
		case "id":
			fragment.ID = meta.content
		case "mime":
			mime := meta.content
			fragment.Mime = &mime
		default:
			extra[meta.name] = meta.content
		}
	}
	if len(extra) > 0 {
		fragment.Extra = extra
	}

	if embed {
		inner := ""
		if el := doc.First("fragment"); el != nil {
			var err error
			if inner, err = el.InnerHTML(); err != nil {
				return manifest.Fragment{}, fmt.Errorf("extract: render fragment: %w", err)
			}
		}
		content := "<fragment>" + inner + "</fragment>"
		fragment.Path = nil
		fragment.Content = &content
	}

	if fragment.ID == "" {
		return manifest.Fragment{}, ErrFragmentMissingID
	}
	return fragment, nil
}
