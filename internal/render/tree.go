// Package render turns the canonical Document into a presentation tree.
// Screen preview, PDF rasterization and Word conversion all serialize the
// same tree, which is what guarantees parity between the three outputs.
package render

import (
	"html"
	"strings"
)

// Node is one element of the presentation tree.
type Node struct {
	Tag      string
	Class    string
	Text     string
	Children []*Node
}

// El builds an element node.
func El(tag, class string, children ...*Node) *Node {
	return &Node{Tag: tag, Class: class, Children: children}
}

// Text builds a text-bearing element node.
func Text(tag, class, text string) *Node {
	return &Node{Tag: tag, Class: class, Text: text}
}

// Append adds children and returns the node for chaining.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

var voidTags = map[string]bool{"br": true, "hr": true, "img": true}

// HTML serializes the tree to an HTML fragment with escaped text.
func HTML(n *Node) string {
	var b strings.Builder
	writeHTML(&b, n)
	return b.String()
}

func writeHTML(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	b.WriteString("<")
	b.WriteString(n.Tag)
	if n.Class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(n.Class))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	if voidTags[n.Tag] {
		return
	}
	if n.Text != "" {
		b.WriteString(html.EscapeString(n.Text))
	}
	for _, c := range n.Children {
		writeHTML(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteString(">")
}

// Page wraps a rendered tree into a standalone HTML document for the
// chromedp renderer.
func Page(title string, body *Node) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title><link rel=\"stylesheet\" href=\"style.css\"></head><body>")
	b.WriteString(HTML(body))
	b.WriteString("</body></html>")
	return b.String()
}
