// Package manifest defines the content records emitted into content.json, the
// prior-manifest memory used to keep article timestamps stable, and the
// assembler that turns extracted records into the final document.
package manifest

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Kind discriminates the three record variants.
type Kind string

const (
	KindDependency Kind = "dependency"
	KindArticle    Kind = "article"
	KindFragment   Kind = "fragment"
)

// Record is implemented by Dependency, Article and Fragment.
type Record interface {
	Kind() Kind
	// IsDraft reports whether the record must be left out of the manifest.
	IsDraft() bool
}

// Fields holds open-ended metadata captured verbatim from meta elements,
// keyed by lowercased meta name.
type Fields map[string]string

// Clone returns a copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Dependency declares a client-side resource for the front-end lazy loader.
type Dependency struct {
	// Path is the manifest-relative path, e.g. content/mydeps/widget.js.
	Path string
	// Type is the lowercased loader type (css, html, js). Empty means the
	// path is emitted as a plain string.
	Type string
}

func (Dependency) Kind() Kind    { return KindDependency }
func (Dependency) IsDraft() bool { return false }

// MarshalJSON emits either a plain string or a {type, path} pair.
func (d Dependency) MarshalJSON() ([]byte, error) {
	if d.Type == "" {
		return marshalRaw(d.Path)
	}
	var w objectWriter
	w.field("type", d.Type)
	w.field("path", d.Path)
	return w.close()
}

// UnmarshalJSON accepts both shapes written by MarshalJSON.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*d = Dependency{Path: plain}
		return nil
	}
	var typed struct {
		Type string `json:"type"`
		Path string `json:"path"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	*d = Dependency{Path: typed.Path, Type: typed.Type}
	return nil
}

// Article is a full content page.
type Article struct {
	Path    string
	Hash    string
	LastMod string
	URLName string
	Title   string
	Teaser  string
	Draft   bool
	Extra   Fields
}

func (Article) Kind() Kind      { return KindArticle }
func (a Article) IsDraft() bool { return a.Draft }

// MarshalJSON keeps the typed fields first and appends extras sorted by key.
// The draft flag is never emitted since drafts are filtered before assembly.
func (a Article) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.field("path", a.Path)
	w.field("lastMod", a.LastMod)
	w.field("urlName", a.URLName)
	w.field("teaser", a.Teaser)
	w.field("title", a.Title)
	w.field("hash", a.Hash)
	w.extras(a.Extra, articleKeys)
	return w.close()
}

var articleKeys = map[string]struct{}{
	"path": {}, "lastMod": {}, "urlName": {}, "teaser": {}, "title": {}, "hash": {},
}

// Fragment is a small identified content unit, either referenced by path or
// inlined through Content.
type Fragment struct {
	// Source is the content-root relative file the fragment was read from.
	// It is not emitted.
	Source  string
	Path    *string
	ID      string
	Content *string
	Mime    *string
	Extra   Fields
}

func (Fragment) Kind() Kind { return KindFragment }

// IsDraft reports whether the fragment carried a draft meta element.
func (f Fragment) IsDraft() bool {
	_, ok := f.Extra["draft"]
	return ok
}

// MarshalJSON keeps the typed fields first, null when unset, and appends
// extras sorted by key.
func (f Fragment) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.field("path", f.Path)
	w.field("id", f.ID)
	w.field("content", f.Content)
	w.field("mime", f.Mime)
	w.extras(f.Extra, fragmentKeys)
	return w.close()
}

var fragmentKeys = map[string]struct{}{
	"path": {}, "id": {}, "content": {}, "mime": {},
}

// objectWriter builds a JSON object with a fixed key order, which
// encoding/json does not offer for maps.
type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *objectWriter) field(key string, value any) {
	if w.err != nil {
		return
	}
	if w.n == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	w.n++
	k, _ := marshalRaw(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	v, err := marshalRaw(value)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(v)
}

// marshalRaw encodes v without escaping <, > and &, so inlined fragment markup
// stays readable in the manifest.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (w *objectWriter) extras(extra Fields, reserved map[string]struct{}) {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if _, taken := reserved[k]; taken {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.field(k, extra[k])
	}
}

func (w *objectWriter) close() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.n == 0 {
		return []byte("{}"), nil
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}
