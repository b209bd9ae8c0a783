// Package markdown compiles Markdown sources found in the content directory
// into article markup. Each compiled file is written next to its source with
// an .html extension, so the manifest builder classifies it like any other
// hand-written article. Metadata comes from YAML front matter and from meta
// elements collected in a div#meta container of the page template.
package markdown
