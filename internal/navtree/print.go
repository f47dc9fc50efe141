package navtree

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// MaxTitleWidth is the display width titles are truncated to when printing.
const MaxTitleWidth = 48

// PrintOptions control Fprint.
type PrintOptions struct {
	// All prints invisible items too.
	All bool
}

// Fprint writes the annotated tree as an indented outline, one item per line:
//
//	title url [flags]
//
// where flags contains g (globals), c (current), p (in path) and v (visible).
func Fprint(w io.Writer, a *Annotation, opts PrintOptions) error {
	bw := bufio.NewWriter(w)
	t := a.tree
	t.Walk(func(id ID, depth int) bool {
		if id != t.Root() && !opts.All && !a.IsVisible(id) {
			return false
		}
		it := &t.items[id]
		bw.WriteString(strings.Repeat("  ", depth))
		bw.WriteString(runewidth.Truncate(it.Title, MaxTitleWidth, "..."))
		if it.URL != "" {
			bw.WriteByte(' ')
			bw.WriteString(it.URL)
		}
		if m := marks(it, a.flags[id]); m != "" {
			bw.WriteString(" [" + m + "]")
		}
		bw.WriteByte('\n')
		return true
	})
	return bw.Flush()
}

func marks(it *Item, f Flags) string {
	var b strings.Builder
	if it.IsGlobals {
		b.WriteByte('g')
	}
	if f&Current != 0 {
		b.WriteByte('c')
	}
	if f&InPath != 0 {
		b.WriteByte('p')
	}
	if f&Visible != 0 {
		b.WriteByte('v')
	}
	return b.String()
}
