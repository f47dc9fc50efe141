package navtree

import "slices"

// Flags are the per-page display state of an item.
type Flags uint8

const (
	Current Flags = 1 << iota // Item is the page being rendered
	InPath                    // Item is a current item or one of its ancestors
	Visible                   // Item is shown in the sidebar
)

// Limits bound how far sibling lists are expanded along a current path.
type Limits struct {
	// Children of path items closer than ExpandDepth steps to the current
	// item are always revealed.
	ExpandDepth int
	// Beyond ExpandDepth, children are revealed only while the running count
	// of path items and their children stays below FanOut.
	FanOut int
}

// DefaultLimits reveals two levels unconditionally and caps the rest at 30.
func DefaultLimits() Limits {
	return Limits{ExpandDepth: 2, FanOut: 30}
}

// Annotation holds the display flags of every item of a tree for one page.
// The tree itself is never modified.
type Annotation struct {
	tree    *Tree
	url     string
	flags   []Flags
	current []ID
}

// Annotate computes the display flags for the page at url.
func (t *Tree) Annotate(url string, lim Limits) *Annotation {
	a := &Annotation{
		tree:  t,
		url:   url,
		flags: make([]Flags, len(t.items)),
	}

	// Reset and match.
	t.Walk(func(id ID, _ int) bool {
		it := &t.items[id]
		if it.IsGlobals {
			a.flags[id] = Visible
		}
		if matches(it, url) {
			a.current = append(a.current, id)
		}
		return true
	})

	// Path and visibility. Walks from different matches accumulate.
	for _, id := range a.current {
		a.flags[id] |= Current

		depth := 0
		if t.items[id].IsGlobals {
			depth = -1
		}
		count := 1
		for cur := id; cur != NoID; cur = t.items[cur].Parent {
			a.flags[cur] |= InPath | Visible

			count++
			depth++
			children := t.items[cur].Children
			if len(children) > 0 {
				count += len(children)
				if depth < lim.ExpandDepth || count < lim.FanOut {
					for _, c := range children {
						a.flags[c] |= Visible
					}
				}
			}
		}
	}
	return a
}

func matches(it *Item, url string) bool {
	if it.URL != "" && it.URL == url {
		return true
	}
	return slices.Contains(it.DedicatedURLs, url)
}

// Tree returns the annotated tree.
func (a *Annotation) Tree() *Tree { return a.tree }

// URL returns the page URL the annotation was computed for.
func (a *Annotation) URL() string { return a.url }

// Current returns the matched items in pre-order.
func (a *Annotation) Current() []ID { return slices.Clone(a.current) }

// Flags returns the display flags of id.
func (a *Annotation) Flags(id ID) Flags {
	if !a.tree.valid(id) {
		return 0
	}
	return a.flags[id]
}

// IsCurrent reports whether id matches the page URL.
func (a *Annotation) IsCurrent(id ID) bool { return a.Flags(id)&Current != 0 }

// IsInPath reports whether id lies between a current item and the root.
func (a *Annotation) IsInPath(id ID) bool { return a.Flags(id)&InPath != 0 }

// IsVisible reports whether id is shown in the page's navigation.
func (a *Annotation) IsVisible(id ID) bool { return a.Flags(id)&Visible != 0 }

// Breadcrumb returns the titles from the root down to the first current
// item, or nil when nothing matched.
func (a *Annotation) Breadcrumb() []string {
	if len(a.current) == 0 {
		return nil
	}
	var out []string
	for cur := a.current[0]; cur != NoID; cur = a.tree.items[cur].Parent {
		out = append(out, a.tree.items[cur].Title)
	}
	slices.Reverse(out)
	return out
}
