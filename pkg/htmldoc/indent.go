package htmldoc

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/net/html"
)

const indentUnit = "  "

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Indent writes the document with every element on its own line.
// Elements whose children are all text stay on one line, e.g. <td>Summary</td>.
func (d *Doc) Indent(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		writeNode(bw, c, 0)
	}

	return bw.Flush()
}

// String returns the indented document.
func (d *Doc) String() string {
	var sb strings.Builder
	_ = d.Indent(&sb)

	return sb.String()
}

func writeNode(w *bufio.Writer, n *html.Node, depth int) {
	pad := strings.Repeat(indentUnit, depth)

	switch n.Type {
	case html.TextNode:
		w.WriteString(pad)
		w.WriteString(html.EscapeString(n.Data))
		w.WriteByte('\n')

	case html.ElementNode:
		w.WriteString(pad)

		if voidElements[n.Data] {
			w.WriteString("<" + n.Data + attrString(n.Attr) + " />\n")
			return
		}

		w.WriteString(openTag(n))

		if inline(n) {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.WriteString(html.EscapeString(c.Data))
			}
			w.WriteString("</" + n.Data + ">\n")
			return
		}

		w.WriteByte('\n')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(w, c, depth+1)
		}
		w.WriteString(pad + "</" + n.Data + ">\n")
	}
}

func inline(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			return false
		}
	}

	return true
}

func openTag(n *html.Node) string {
	return "<" + n.Data + attrString(n.Attr) + ">"
}

func attrString(attrs []html.Attribute) string {
	var sb strings.Builder

	for _, a := range attrs {
		sb.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
	}

	return sb.String()
}
