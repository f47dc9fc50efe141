package parser

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docnav/internal/outline"
	"golang.org/x/net/html"
)

// renderSections produces body HTML for formats without markup of their own.
func renderSections(secs []*outline.Section) string {
	var b strings.Builder
	var walk func([]*outline.Section)
	walk = func(secs []*outline.Section) {
		for _, s := range secs {
			if s.Title != "" {
				level := min(max(s.Level, 1), 6)
				fmt.Fprintf(&b, "<h%d id=\"%s\">%s</h%d>\n", level, html.EscapeString(s.Anchor), html.EscapeString(s.Title), level)
			}
			writeParagraphs(&b, s.Text)
			walk(s.Children)
		}
	}
	walk(secs)
	return b.String()
}

func writeParagraphs(b *strings.Builder, text string) {
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>\n"))
		b.WriteString("</p>\n")
	}
}
