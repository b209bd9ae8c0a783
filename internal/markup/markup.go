// Package markup exposes a small read-only query surface over HTML-like
// content files: find elements by tag name, read attributes and read inner
// content. Parsing is delegated to golang.org/x/net/html, so unknown tags
// such as <fragment> are kept as ordinary elements.
package markup

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed markup tree.
type Document struct {
	root *html.Node
}

// Element is a single element node inside a Document.
type Element struct {
	node *html.Node
}

// Parse builds a Document from raw markup. The HTML5 parsing algorithm is
// error tolerant, so an error here means the reader itself failed.
func Parse(data []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("markup: parse: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFragment parses data as the content of a <body> element. Unlike Parse,
// leading <meta>, <link>, <title> or <style> elements stay where they appear
// instead of moving into a synthesized <head>.
func ParseFragment(data []byte) (*Document, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(data), body)
	if err != nil {
		return nil, fmt.Errorf("markup: parse fragment: %w", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		root.AppendChild(n)
	}
	return &Document{root: root}, nil
}

// Find returns every element named tag in document order.
func (d *Document) Find(tag string) []*Element {
	if d == nil {
		return nil
	}
	return findAll(d.root, tag)
}

// First returns the first element named tag, or nil.
func (d *Document) First(tag string) *Element {
	if d == nil {
		return nil
	}
	if n := findFirst(d.root, strings.ToLower(tag)); n != nil {
		return &Element{node: n}
	}
	return nil
}

// Has reports whether the document contains at least one element named tag.
func (d *Document) Has(tag string) bool {
	return d.First(tag) != nil
}

// HTML renders every top-level node of the document.
func (d *Document) HTML() (string, error) {
	if d == nil {
		return "", nil
	}
	var buf bytes.Buffer
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("markup: render document: %w", err)
		}
	}
	return buf.String(), nil
}

// Tag returns the lowercased element name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Attr returns the value of the named attribute and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// ID is shorthand for the id attribute.
func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}

// Find returns descendants of e named tag in document order.
func (e *Element) Find(tag string) []*Element {
	return findAll(e.node, tag)
}

// InnerHTML renders the element's children.
func (e *Element) InnerHTML() (string, error) {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("markup: render <%s>: %w", e.node.Data, err)
		}
	}
	return buf.String(), nil
}

// OuterHTML renders the element itself.
func (e *Element) OuterHTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return "", fmt.Errorf("markup: render <%s>: %w", e.node.Data, err)
	}
	return buf.String(), nil
}

// Text concatenates the text nodes below e with every tag and comment
// removed. Entities are decoded.
func (e *Element) Text() string {
	var b strings.Builder
	collectText(&b, e.node)
	return b.String()
}

// Remove detaches e from its document.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// StripTags removes every tag from a markup fragment and returns the text.
func StripTags(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

func findAll(root *html.Node, tag string) []*Element {
	tag = strings.ToLower(tag)
	var out []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, &Element{node: c})
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func findFirst(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collectText(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			collectText(b, c)
		}
	}
}
