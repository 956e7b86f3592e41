package search

import (
	"strings"

	"golang.org/x/net/html"
)

// Excerpt strips markup from rendered HTML and returns up to maxLen bytes of
// plain text, cut at a word boundary.
func Excerpt(rendered string, maxLen int) string {
	doc, err := html.Parse(strings.NewReader(rendered))
	if err != nil {
		return ""
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := strings.Join(strings.Fields(buf.String()), " ")
	if len(text) <= maxLen {
		return text
	}

	cut := text[:maxLen]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
