// Package markdown provides analysis over generated document bodies. It does
// not re-render markdown; it parses it to extract the heading outline shown
// in unit results and to sanity-check that a candidate body parses at all.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry of a document outline.
type Heading struct {
	Level int
	Text  string
}

// ExtractOutline parses a Markdown body (front-matter already removed) and
// returns its headings in document order.
func ExtractOutline(body []byte) []Heading {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var outline []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			outline = append(outline, Heading{
				Level: h.Level,
				Text:  headingText(h, body),
			})
		}
		return gmast.WalkContinue, nil
	})
	return outline
}

func headingText(h *gmast.Heading, body []byte) string {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			b.Write(t.Segment.Value(body))
		}
	}
	return strings.TrimSpace(b.String())
}
