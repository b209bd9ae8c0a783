package builder

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-contentjson/internal/extract"
	"github.com/goliatone/go-contentjson/internal/manifest"
	"github.com/goliatone/go-contentjson/internal/storage"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

var modTime = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

const autoArticle = `<meta name="last-modified" content="auto"><meta name="title" content="A"><article>Hello world.</article>`

func sampleContent() fstest.MapFS {
	return fstest.MapFS{
		"mydeps/widget.js": {Data: []byte("console.log(1)"), ModTime: modTime},
		"a.html":           {Data: []byte(autoArticle), ModTime: modTime},
		"draft.html":       {Data: []byte(`<meta name="draft"><article>wip</article>`), ModTime: modTime},
		"nav.html":         {Data: []byte(`<meta name="id" content="nav"><meta name="embed"><fragment><a href="/">Home</a></fragment>`), ModTime: modTime},
		"footer.html":      {Data: []byte(`<meta name="id" content="footer"><meta name="draft"><fragment>f</fragment>`), ModTime: modTime},
		"default.html":     {Data: []byte("template, never classified")},
	}
}

type decodedManifest struct {
	Dependencies []json.RawMessage `json:"mydeps"`
	Articles     []map[string]any  `json:"metaArticles"`
	Fragments    []map[string]any  `json:"metaFragments"`
}

func decode(t *testing.T, data []byte) decodedManifest {
	t.Helper()
	var out decodedManifest
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	return out
}

func TestBuildWritesManifest(t *testing.T) {
	store := storage.NewMemoryStore(nil)
	svc := NewService(Config{}, Dependencies{Content: sampleContent(), Store: store})
	svc.runID = func() string { return "run-1" }

	result, err := svc.Build(context.Background(), interfaces.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.RunID != "run-1" || !result.Written {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Dependencies != 1 || result.Articles != 1 || result.Fragments != 1 || result.Drafts != 2 {
		t.Fatalf("unexpected counts %+v", result)
	}

	stored, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(stored) != string(result.Document) {
		t.Fatalf("stored manifest differs from result document")
	}

	doc := decode(t, stored)
	if string(doc.Dependencies[0]) != `{"type":"js","path":"content/mydeps/widget.js"}` {
		t.Fatalf("unexpected dependency %s", doc.Dependencies[0])
	}
	article := doc.Articles[0]
	if article["lastMod"] != "2021-01-01T00:00:00.000Z" || article["title"] != "A" || article["urlName"] != "a.html" {
		t.Fatalf("unexpected article %+v", article)
	}
	if _, ok := article["last-modified"]; ok {
		t.Fatalf("last-modified must not be emitted")
	}
	fragment := doc.Fragments[0]
	if fragment["id"] != "nav" || fragment["path"] != nil || fragment["content"] != `<fragment><a href="/">Home</a></fragment>` {
		t.Fatalf("unexpected fragment %+v", fragment)
	}
}

func TestBuildFailsFastWithoutWriting(t *testing.T) {
	prior := []byte(`{"mydeps":[],"metaArticles":[],"metaFragments":[]}`)
	store := storage.NewMemoryStore(prior)
	content := sampleContent()
	content["broken.html"] = &fstest.MapFile{Data: []byte("<p>neither kind</p>"), ModTime: modTime}

	_, err := NewService(Config{}, Dependencies{Content: content, Store: store}).Build(context.Background(), interfaces.BuildOptions{})
	if err == nil {
		t.Fatalf("expected build error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if !errors.Is(err, extract.ErrUnclassifiable) {
		t.Fatalf("expected ErrUnclassifiable, got %v", err)
	}
	if store.Saves() != 0 {
		t.Fatalf("nothing may be written on failure")
	}
	data, _ := store.Load(context.Background())
	if string(data) != string(prior) {
		t.Fatalf("prior manifest must be untouched")
	}
}

func TestBuildRejectsDuplicateFragmentIDs(t *testing.T) {
	content := fstest.MapFS{
		"a.html": {Data: []byte(`<meta name="id" content="dup"><fragment>a</fragment>`)},
		"b.html": {Data: []byte(`<meta name="id" content="dup"><fragment>b</fragment>`)},
	}
	store := storage.NewMemoryStore(nil)
	_, err := NewService(Config{}, Dependencies{Content: content, Store: store}).Build(context.Background(), interfaces.BuildOptions{})
	if !errors.Is(err, manifest.ErrDuplicateFragmentID) {
		t.Fatalf("expected ErrDuplicateFragmentID, got %v", err)
	}
	if store.Saves() != 0 {
		t.Fatalf("nothing may be written on failure")
	}
}

func TestBuildDryRunSkipsStore(t *testing.T) {
	store := storage.NewMemoryStore(nil)
	result, err := NewService(Config{}, Dependencies{Content: sampleContent(), Store: store}).Build(context.Background(), interfaces.BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Written || store.Saves() != 0 {
		t.Fatalf("dry run must not persist")
	}
	if len(result.Document) == 0 {
		t.Fatalf("dry run still returns the document")
	}
}

func TestBuildWithoutStoreRequiresDryRun(t *testing.T) {
	_, err := NewService(Config{}, Dependencies{Content: sampleContent()}).Build(context.Background(), interfaces.BuildOptions{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestBuildIgnoresCorruptPriorManifest(t *testing.T) {
	store := storage.NewMemoryStore([]byte("{corrupt"))
	result, err := NewService(Config{}, Dependencies{Content: sampleContent(), Store: store}).Build(context.Background(), interfaces.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Memoized != 0 || !result.Written {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestBuildFallsBackToModTimeForMalformedPriorLastMod(t *testing.T) {
	sum := sha1.Sum([]byte(autoArticle))
	prior := `{"mydeps":[],"metaArticles":[{"hash":"` + hex.EncodeToString(sum[:]) + `","lastMod":"2016-05-01"}],"metaFragments":[]}`
	store := storage.NewMemoryStore([]byte(prior))

	result, err := NewService(Config{}, Dependencies{Content: sampleContent(), Store: store}).Build(context.Background(), interfaces.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Memoized != 0 || !result.Written {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := decode(t, result.Document).Articles[0]["lastMod"]; got != "2021-01-01T00:00:00.000Z" {
		t.Fatalf("expected mtime lastMod, got %v", got)
	}
}

func TestRebuildKeepsLastModWhenContentIsUnchanged(t *testing.T) {
	dir := t.TempDir()
	articlePath := filepath.Join(dir, "a.html")
	if err := os.WriteFile(articlePath, []byte(autoArticle), 0o644); err != nil {
		t.Fatalf("write article: %v", err)
	}
	if err := os.Chtimes(articlePath, modTime, modTime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	store := storage.NewFileStore(filepath.Join(dir, "content.json"))
	svc := NewService(Config{}, Dependencies{Content: os.DirFS(dir), Store: store})

	first, err := svc.Build(context.Background(), interfaces.BuildOptions{})
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if got := decode(t, first.Document).Articles[0]["lastMod"]; got != "2021-01-01T00:00:00.000Z" {
		t.Fatalf("unexpected first lastMod %v", got)
	}

	touched := modTime.Add(400 * 24 * time.Hour)
	if err := os.Chtimes(articlePath, touched, touched); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	second, err := svc.Build(context.Background(), interfaces.BuildOptions{})
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if second.Memoized != 1 {
		t.Fatalf("expected memoized article, got %+v", second)
	}
	if string(second.Document) != string(first.Document) {
		t.Fatalf("manifest changed without content edits\nfirst  %s\nsecond %s", first.Document, second.Document)
	}

	if err := os.WriteFile(articlePath, []byte(autoArticle+"<!-- edit -->"), 0o644); err != nil {
		t.Fatalf("edit article: %v", err)
	}
	if err := os.Chtimes(articlePath, touched, touched); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	third, err := svc.Build(context.Background(), interfaces.BuildOptions{})
	if err != nil {
		t.Fatalf("third Build: %v", err)
	}
	if got := decode(t, third.Document).Articles[0]["lastMod"]; got != manifest.FormatTimestamp(touched) {
		t.Fatalf("edited content must take the new mtime, got %v", got)
	}
}
