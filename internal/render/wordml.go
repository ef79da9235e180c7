package render

import (
	"encoding/xml"
	"strings"
)

// WordML serializes the presentation tree to WordprocessingML body content.
// The docx exporter injects this into a .docx container; it is the same tree
// the HTML and PDF paths consume, so Word output cannot diverge from the
// preview.
func WordML(n *Node) string {
	var b strings.Builder
	writeWordML(&b, n)
	return b.String()
}

func writeWordML(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Tag {
	case "h1", "h2", "h3", "h4":
		writeParagraph(b, collectText(n), true)
	case "p", "li", "span":
		if t := collectText(n); t != "" {
			writeParagraph(b, t, false)
		}
	default:
		if n.Text != "" {
			writeParagraph(b, n.Text, false)
		}
		for _, c := range n.Children {
			writeWordML(b, c)
		}
	}
}

func writeParagraph(b *strings.Builder, text string, bold bool) {
	if text == "" {
		return
	}
	b.WriteString("<w:p><w:r>")
	if bold {
		b.WriteString("<w:rPr><w:b/></w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</w:t></w:r></w:p>")
}

func collectText(n *Node) string {
	if n == nil {
		return ""
	}
	parts := []string{}
	if n.Text != "" {
		parts = append(parts, n.Text)
	}
	for _, c := range n.Children {
		if t := collectText(c); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
