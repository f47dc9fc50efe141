package navtree

// View is a nested, JSON-friendly snapshot of an annotated item.
type View struct {
	Title     string  `json:"title"`
	URL       string  `json:"url,omitempty"`
	IsGlobals bool    `json:"globals,omitempty"`
	IsCurrent bool    `json:"current,omitempty"`
	IsInPath  bool    `json:"in_path,omitempty"`
	IsVisible bool    `json:"visible"`
	Children  []*View `json:"children,omitempty"`
}

// View returns the annotated tree as nested views rooted at the tree root.
// With visibleOnly set, invisible items and their subtrees are left out; the
// root is always included since it only acts as a container.
func (a *Annotation) View(visibleOnly bool) *View {
	var build func(id ID) *View
	build = func(id ID) *View {
		it := &a.tree.items[id]
		f := a.flags[id]
		v := &View{
			Title:     it.Title,
			URL:       it.URL,
			IsGlobals: it.IsGlobals,
			IsCurrent: f&Current != 0,
			IsInPath:  f&InPath != 0,
			IsVisible: f&Visible != 0,
		}
		for _, c := range it.Children {
			if visibleOnly && a.flags[c]&Visible == 0 {
				continue
			}
			v.Children = append(v.Children, build(c))
		}
		return v
	}
	return build(a.tree.Root())
}
