package outline

import (
	"strings"
)

// WordsPerMinute is the reading speed used by ReadingMinutes.
const WordsPerMinute = 200

// Words counts the words in the text of every section.
func (o *Outline) Words() int {
	n := 0
	walk(o.Sections, func(s *Section) bool {
		n += len(strings.Fields(s.Text))
		return true
	})
	return n
}

// ReadingMinutes estimates the time needed to read the page, rounding up.
// Pages without text take zero minutes.
func (o *Outline) ReadingMinutes() int {
	return (o.Words() + WordsPerMinute - 1) / WordsPerMinute
}

// Summary returns whole sentences from the first paragraph of the page,
// up to maxWords words. A first sentence longer than that is cut at a word
// boundary and ends with "...".
func (o *Outline) Summary(maxWords int) string {
	var para string
	walk(o.Sections, func(s *Section) bool {
		if ps := splitByParagraphs(s.Text); len(ps) > 0 {
			para = ps[0]
			return false
		}
		return true
	})
	if para == "" || maxWords <= 0 {
		return ""
	}
	para = strings.Join(strings.Fields(para), " ")

	var b strings.Builder
	words := 0
	for _, sent := range splitSentences(para) {
		n := len(strings.Fields(sent))
		if words+n > maxWords {
			if words == 0 {
				return strings.Join(strings.Fields(sent)[:maxWords], " ") + "..."
			}
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sent)
		words += n
	}
	return b.String()
}

// walk visits sections in document order until fn returns false.
func walk(secs []*Section, fn func(*Section) bool) bool {
	for _, s := range secs {
		if !fn(s) || !walk(s.Children, fn) {
			return false
		}
	}
	return true
}

// splitByParagraphs splits on blank lines.
func splitByParagraphs(text string) []string {
	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitSentences splits after '.', '!' or '?' followed by a space.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
