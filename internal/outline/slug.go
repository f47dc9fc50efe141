package outline

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugify turns heading text into a fragment id.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Anchors hands out unique fragment ids within one page.
type Anchors map[string]int

// Unique returns id, or id-N when id was already handed out.
func (a Anchors) Unique(id string) string {
	if id == "" {
		id = "section"
	}
	n := a[id]
	a[id] = n + 1
	if n == 0 {
		return id
	}
	return id + "-" + strconv.Itoa(n)
}
