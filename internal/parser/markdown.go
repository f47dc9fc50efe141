package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docnav/internal/outline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
	)
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*outline.Outline, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := newMarkdown()
	doc := md.Parser().Parse(text.NewReader(src))

	o := &outline.Outline{
		Title: baseTitle(filename),
	}

	// Walk the AST and build sections based on heading levels.
	// We use a stack to track the current nesting.
	type stackEntry struct {
		sec   *outline.Section
		level int
	}

	// Root is level 0, all h1+ nest under it.
	root := &outline.Section{Title: o.Title}
	stack := []stackEntry{{sec: root, level: 0}}
	anchors := outline.Anchors{}
	titleSet := false

	var currentText bytes.Buffer

	flushText := func() {
		t := strings.TrimSpace(currentText.String())
		if t != "" {
			top := stack[len(stack)-1].sec
			if top.Text != "" {
				top.Text += "\n\n" + t
			} else {
				top.Text = t
			}
		}
		currentText.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			flushText()
			level := node.Level
			title := inlineText(node, src)
			if level == 1 && !titleSet {
				o.Title = title
				titleSet = true
			}

			newSec := &outline.Section{
				Title:  title,
				Level:  level,
				Anchor: anchors.Unique(headingID(node, title)),
			}

			// Pop stack until we find a parent with lower level.
			for len(stack) > 1 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}

			parent := stack[len(stack)-1].sec
			parent.Children = append(parent.Children, newSec)
			stack = append(stack, stackEntry{sec: newSec, level: level})

		default:
			// Collect text content from non-heading blocks.
			t := extractText(n, src)
			if t != "" {
				if currentText.Len() > 0 {
					currentText.WriteString("\n\n")
				}
				currentText.WriteString(t)
			}
		}
	}
	flushText()

	o.Sections = root.Children
	// Text before the first heading becomes a leading section.
	if root.Text != "" {
		o.Sections = append([]*outline.Section{{Text: root.Text}}, o.Sections...)
	}

	var body bytes.Buffer
	if err := md.Renderer().Render(&body, src, doc); err != nil {
		return nil, err
	}
	o.HTML = body.String()

	return o, nil
}

// headingID returns the id goldmark assigned to a heading, or a slug of its
// text when none was assigned.
func headingID(h *ast.Heading, title string) string {
	if v, ok := h.AttributeString("id"); ok {
		if id, ok := v.([]byte); ok && len(id) > 0 {
			return string(id)
		}
	}
	return outline.Slugify(title)
}

// inlineText collects the text of a node's inline children only.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.WriteString(inlineText(c, src))
	}
	return strings.TrimSpace(buf.String())
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	// Code and raw HTML blocks carry their content as lines.
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	if fc := n.FirstChild(); fc != nil && fc.Type() == ast.TypeInline {
		return inlineText(n, src)
	}
	// Recurse into nested blocks such as lists and blockquotes.
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := extractText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}
