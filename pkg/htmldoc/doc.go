// Package htmldoc builds an html node tree with nested closures and writes it
// back out one element per line, indented by depth.
package htmldoc

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Doc struct {
	root *html.Node
	cur  *html.Node
}

func New() *Doc {
	root := &html.Node{Type: html.DocumentNode}

	return &Doc{root: root, cur: root}
}

// Attr is a convenience for building a single attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func element(name string, attrs []html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
		Attr:     attrs,
	}
}

// Tag opens an element, runs body inside it and closes it again.
func (d *Doc) Tag(name string, body func(), attrs ...html.Attribute) {
	n := element(name, attrs)
	d.cur.AppendChild(n)

	parent := d.cur
	d.cur = n
	defer func() { d.cur = parent }()

	if body != nil {
		body()
	}
}

// Line adds an element holding only text.
func (d *Doc) Line(name, text string, attrs ...html.Attribute) {
	d.Tag(name, func() { d.Text(text) }, attrs...)
}

func (d *Doc) Text(text string) {
	d.cur.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Stag adds a self closing element such as br.
func (d *Doc) Stag(name string, attrs ...html.Attribute) {
	d.cur.AppendChild(element(name, attrs))
}

// Root exposes the document node, mostly for html.Render.
func (d *Doc) Root() *html.Node {
	return d.root
}
