package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docnav/internal/outline"
)

// TextParser handles plain text files. A paragraph whose last line is a run
// of '=' or '-' is a level 1 or level 2 heading, as in setext Markdown.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*outline.Outline, error) {
	paras, err := readParagraphs(r)
	if err != nil {
		return nil, err
	}

	o := &outline.Outline{Title: baseTitle(filename)}
	anchors := outline.Anchors{}
	var top, cur *outline.Section

	for _, para := range paras {
		title, level := underlined(para)
		if level == 0 {
			if cur == nil {
				// Text before the first heading stands on its own.
				o.Sections = append(o.Sections, &outline.Section{Text: para})
				continue
			}
			if cur.Text != "" {
				cur.Text += "\n\n"
			}
			cur.Text += para
			continue
		}

		cur = &outline.Section{
			Title:  title,
			Anchor: anchors.Unique(outline.Slugify(title)),
			Level:  level,
		}
		switch {
		case level == 1:
			if len(o.Sections) == 0 {
				o.Title = title
			}
			top = cur
			o.Sections = append(o.Sections, cur)
		case top != nil:
			top.Children = append(top.Children, cur)
		default:
			o.Sections = append(o.Sections, cur)
		}
	}
	o.HTML = renderSections(o.Sections)

	return o, nil
}

func readParagraphs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paras []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, "\n"))
			current = current[:0]
		}
	}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paras, scanner.Err()
}

// underlined reports the heading title and level of a paragraph ending in
// an underline of at least three '=' or '-'.
func underlined(para string) (string, int) {
	i := strings.LastIndexByte(para, '\n')
	if i < 0 {
		return "", 0
	}
	rule := strings.TrimSpace(para[i+1:])
	if len(rule) < 3 {
		return "", 0
	}
	level := 0
	switch {
	case strings.Trim(rule, "=") == "":
		level = 1
	case strings.Trim(rule, "-") == "":
		level = 2
	default:
		return "", 0
	}
	return strings.Join(strings.Fields(para[:i]), " "), level
}
