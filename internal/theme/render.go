package theme

import (
	"html/template"
	"io"
	"path"
	"strings"

	"github.com/dgallion1/docnav/internal/navtree"
)

type navLink struct {
	Title    string
	Href     string
	Class    string
	Children []*navLink
}

// summaryWords bounds the page description.
const summaryWords = 30

type layoutData struct {
	Project     string
	Title       string
	Description string
	Minutes     int
	URL        string
	Home       string
	RedirectTo string
	Breadcrumb []string
	Navigation []*navLink
	Body       template.HTML
}

// Render executes the page layout.
func (d *Default) Render(w io.Writer, pd *PageData) error {
	ld := layoutData{
		URL:        pd.URL,
		RedirectTo: pd.RedirectTo,
		Body:       pd.Body,
		Home:       "index.html",
	}
	if pd.Project != nil {
		ld.Project = pd.Project.Name
	}
	if pd.Page != nil {
		ld.Title = pd.Page.Title
		if o := pd.Page.Outline; o != nil && pd.RedirectTo == "" {
			ld.Description = o.Summary(summaryWords)
			ld.Minutes = o.ReadingMinutes()
		}
	}
	if pd.Navigation != nil {
		root := pd.Navigation.View(true)
		if root.URL != "" {
			ld.Home = root.URL
		}
		ld.Navigation = navLinks(pd.URL, root.Children)
		ld.Breadcrumb = pd.Navigation.Breadcrumb()
	}
	return d.layout.Execute(w, ld)
}

func navLinks(from string, views []*navtree.View) []*navLink {
	var out []*navLink
	for _, v := range views {
		l := &navLink{
			Title:    v.Title,
			Class:    navClass(v),
			Children: navLinks(from, v.Children),
		}
		if v.URL != "" {
			l.Href = relURL(from, v.URL)
		}
		out = append(out, l)
	}
	return out
}

func navClass(v *navtree.View) string {
	var cls []string
	if v.IsGlobals {
		cls = append(cls, "globals")
	}
	if v.IsInPath {
		cls = append(cls, "in-path")
	}
	if v.IsCurrent {
		cls = append(cls, "current")
	}
	return strings.Join(cls, " ")
}

// relURL rewrites a site-relative URL so it resolves from the page at from.
// Absolute and external URLs are returned unchanged.
func relURL(from, to string) string {
	if to == "" || strings.HasPrefix(to, "/") || strings.HasPrefix(to, "#") || strings.Contains(to, "://") {
		return to
	}
	dir := path.Dir(from)
	if dir == "." || dir == "/" {
		return to
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1) + to
}
