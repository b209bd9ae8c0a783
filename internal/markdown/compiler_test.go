package markdown

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-contentjson/internal/extract"
	"github.com/goliatone/go-contentjson/internal/scan"
)

const metaTemplate = `<div id="meta">
  <meta name="last-modified" content="auto">
  <meta name="author" content="Site Team">
</div>
<section><%=content%></section>`

func writeFile(t *testing.T, dir, rel, body string) {
	t.Helper()
	target := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestPostCompileHoistsMetas(t *testing.T) {
	page := `<div id="meta"><meta name="title" content="T"></div><h1>Hi</h1>`
	out, count, err := PostCompile(page, nil)
	if err != nil {
		t.Fatalf("PostCompile: %v", err)
	}
	want := "<meta name=\"title\" content=\"T\"/>\n\n<article>\n<h1>Hi</h1>\n</article>"
	if string(out) != want {
		t.Fatalf("unexpected output\nwant %q\ngot  %q", want, out)
	}
	if count != 1 {
		t.Fatalf("expected one meta, got %d", count)
	}
}

func TestPostCompileWithoutMetas(t *testing.T) {
	out, count, err := PostCompile("<p>plain</p>\n", nil)
	if err != nil {
		t.Fatalf("PostCompile: %v", err)
	}
	if string(out) != "\n\n<article>\n<p>plain</p>\n</article>" || count != 0 {
		t.Fatalf("unexpected output %q (%d)", out, count)
	}
}

func TestPostCompileKeepsLeadingHeadMarkup(t *testing.T) {
	page := "<meta name=\"author\" content=\"Ann\">\n<link rel=\"stylesheet\" href=\"a.css\">\n<h1>Hi</h1>"
	out, count, err := PostCompile(page, nil)
	if err != nil {
		t.Fatalf("PostCompile: %v", err)
	}
	want := "\n\n<article>\n<meta name=\"author\" content=\"Ann\"/>\n<link rel=\"stylesheet\" href=\"a.css\"/>\n<h1>Hi</h1>\n</article>"
	if string(out) != want {
		t.Fatalf("unexpected output\nwant %q\ngot  %q", want, out)
	}
	if count != 0 {
		t.Fatalf("metas outside div#meta are not hoisted, got %d", count)
	}
}

func TestPostCompileTemplateMetaReachesExtractor(t *testing.T) {
	page := `<meta name="last-modified" content="auto"><div id="meta"><meta name="title" content="T"></div><p>x</p>`
	out, count, err := PostCompile(page, nil)
	if err != nil {
		t.Fatalf("PostCompile: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one hoisted meta, got %d", count)
	}
	if !strings.Contains(string(out), `<meta name="last-modified" content="auto"/>`) {
		t.Fatalf("template meta dropped: %q", out)
	}
}

func TestCompileDirectoryWritesArticles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultTemplateName, metaTemplate)
	writeFile(t, dir, "post.md", "---\ntitle: First Post\n---\n# Hello\n\nSome *text*.\n")
	writeFile(t, dir, "notes/deep.md", "Deep content.\n")
	writeFile(t, dir, "default-md.md", "template scaffolding")

	compiler, err := NewCompiler(Config{ContentDir: dir})
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	docs, err := compiler.CompileDirectory(context.Background())
	if err != nil {
		t.Fatalf("CompileDirectory: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].SourcePath != "notes/deep.md" || docs[0].OutputPath != "notes/deep.html" {
		t.Fatalf("unexpected first document %+v", docs[0])
	}
	if docs[1].OutputPath != "post.html" || docs[1].MetaCount != 3 {
		t.Fatalf("unexpected second document %+v", docs[1])
	}
	if _, err := os.Stat(filepath.Join(dir, "default-md.html")); !os.IsNotExist(err) {
		t.Fatalf("default sources must not be compiled")
	}

	written, err := os.ReadFile(filepath.Join(dir, "post.html"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(written)
	if !strings.HasPrefix(text, `<meta name="title" content="First Post"/>`) {
		t.Fatalf("front matter metas must come first, got %q", text)
	}
	if strings.Contains(text, `id="meta"`) {
		t.Fatalf("meta container must be removed, got %q", text)
	}
	if !strings.Contains(text, "\n\n<article>\n<section>") || !strings.HasSuffix(text, "\n</article>") {
		t.Fatalf("body must be wrapped in article, got %q", text)
	}

	extraction, err := extract.New(extract.Config{}).Extract(scan.Candidate{Path: "post.html", Data: written, ModTime: time.Now()})
	if err != nil {
		t.Fatalf("compiled output must extract as an article: %v", err)
	}
	if extraction.LastMod != extract.LastModModTime {
		t.Fatalf("expected auto last-modified to fall back to mtime")
	}
}

func TestCompileFileWithoutTemplateUsesPlaceholder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "solo.md", "# Solo\n")

	compiler, err := NewCompiler(Config{ContentDir: dir})
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	doc, err := compiler.CompileFile(context.Background(), "solo.md")
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}
	want := "\n\n<article>\n<h1 id=\"solo\">Solo</h1>\n</article>"
	if string(doc.Markup) != want {
		t.Fatalf("unexpected markup %q", doc.Markup)
	}
}

func TestCompilerTemplateErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "a")
	writeFile(t, dir, "broken.jst", "<html>no placeholder</html>")

	compiler, err := NewCompiler(Config{ContentDir: dir, Template: filepath.Join(dir, "broken.jst")})
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	if _, err := compiler.CompileDirectory(context.Background()); !errors.Is(err, ErrTemplatePlaceholder) {
		t.Fatalf("expected ErrTemplatePlaceholder, got %v", err)
	}

	missing, err := NewCompiler(Config{ContentDir: dir, Template: filepath.Join(dir, "nope.jst")})
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	if _, err := missing.CompileDirectory(context.Background()); err == nil {
		t.Fatalf("an explicit template must exist")
	}
}

func TestNewCompilerRequiresDirectory(t *testing.T) {
	if _, err := NewCompiler(Config{}); err == nil {
		t.Fatalf("expected error for empty content dir")
	}
	if _, err := NewCompiler(Config{ContentDir: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatalf("expected error for missing content dir")
	}
}
