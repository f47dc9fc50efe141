package theme

import (
	"cmp"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/outline"
	"github.com/dgallion1/docnav/internal/project"
)

// Theme builds the navigation tree for a project and lays out pages.
type Theme interface {
	Navigation(p *project.Project) (*navtree.Tree, error)
	Render(w io.Writer, d *PageData) error
}

// PageData is everything the layout needs for one output file.
type PageData struct {
	Project    *project.Project
	Page       *project.Page
	URL        string              // Output URL, differs from Page.URL for alias redirects
	Navigation *navtree.Annotation // Set by the navigation plugin
	Body       template.HTML
	RedirectTo string // Target URL for alias pages
}

//go:embed layout.html
var layoutHTML string

// Default is the built-in theme.
type Default struct {
	// HeadingDepth is how many heading levels of each page appear in the
	// navigation. Zero leaves headings out.
	HeadingDepth int

	log    *slog.Logger
	layout *template.Template
}

// NewDefault creates the built-in theme.
func NewDefault(headingDepth int, log *slog.Logger) (*Default, error) {
	if log == nil {
		log = slog.Default()
	}
	tmpl, err := template.New("layout").Funcs(template.FuncMap{
		"rel": relURL,
	}).Parse(layoutHTML)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &Default{HeadingDepth: headingDepth, log: log, layout: tmpl}, nil
}

// Navigation returns the tree described by the project's menu file, or one
// derived from the directory layout when there is none.
func (d *Default) Navigation(p *project.Project) (*navtree.Tree, error) {
	root, err := loadMenu(p)
	if err != nil {
		return nil, err
	}
	if root != nil {
		d.log.Debug("navigation from menu", "project", p.Name)
	} else {
		root = d.fromProject(p)
	}
	tree, err := navtree.FromNode(root)
	if err != nil {
		return nil, err
	}
	d.log.Info("navigation built", "project", p.Name, "items", tree.Len())
	return tree, nil
}

type entry struct {
	weight int
	node   *navtree.Node
}

func (d *Default) fromProject(p *project.Project) *navtree.Node {
	root := &navtree.Node{Title: p.Name}
	dirNodes := map[string]*navtree.Node{"": root}
	children := make(map[string][]entry)

	dirs := p.Dirs()
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		n := &navtree.Node{Title: humanize(path.Base(dir))}
		weight := 0
		if idx := p.Index(dir); idx != nil {
			n.Title = idx.Title
			n.URL = idx.URL
			n.DedicatedURLs = idx.Aliases
			weight = idx.Weight
		}
		dirNodes[dir] = n
		parent := project.ParentDir(dir)
		children[parent] = append(children[parent], entry{weight, n})
	}

	var globals *navtree.Node
	for _, pg := range p.Pages {
		switch {
		case pg.IsGlobals:
			globals = d.pageNode(pg)
			globals.IsGlobals = true
		case pg.IsIndex && pg.Dir == "":
			root.URL = pg.URL
			root.DedicatedURLs = pg.Aliases
		case pg.IsIndex:
			// Represented by its directory.
		default:
			children[pg.Dir] = append(children[pg.Dir], entry{pg.Weight, d.pageNode(pg)})
		}
	}

	for _, dir := range dirs {
		es := children[dir]
		slices.SortStableFunc(es, func(a, b entry) int {
			return cmp.Or(cmp.Compare(a.weight, b.weight), strings.Compare(a.node.Title, b.node.Title))
		})
		for _, e := range es {
			dirNodes[dir].Children = append(dirNodes[dir].Children, e.node)
		}
	}
	if globals != nil {
		root.Children = append([]*navtree.Node{globals}, root.Children...)
	}
	return root
}

func (d *Default) pageNode(pg *project.Page) *navtree.Node {
	n := &navtree.Node{
		Title:         pg.Title,
		URL:           pg.URL,
		DedicatedURLs: pg.Aliases,
	}
	if pg.Outline != nil {
		n.Children = headingNodes(pg.URL, pg.Outline.Headings(), d.HeadingDepth)
	}
	return n
}

func headingNodes(pageURL string, secs []*outline.Section, depth int) []*navtree.Node {
	if depth <= 0 {
		return nil
	}
	var out []*navtree.Node
	for _, s := range secs {
		if s.Title == "" {
			continue
		}
		out = append(out, &navtree.Node{
			Title:    s.Title,
			URL:      pageURL + "#" + s.Anchor,
			Children: headingNodes(pageURL, s.Children, depth-1),
		})
	}
	return out
}

// humanize turns a directory name like "getting-started" into "Getting started".
func humanize(name string) string {
	name = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(name))
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
