package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dgallion1/docnav/internal/outline"
	"github.com/dgallion1/docnav/internal/parser"
)

// MenuFile is the optional navigation override at the project root.
const MenuFile = "nav.yml"

// ErrDuplicateURL is returned when two sources map to the same page URL.
var ErrDuplicateURL = errors.New("duplicate page url")

// Project is a documentation site loaded from a source directory.
type Project struct {
	Name  string
	Root  string  // Source directory
	Pages []*Page // Sorted by URL
}

// Page is one rendered document.
type Page struct {
	URL       string   // Slash-separated output path, e.g. "guide/install.html"
	Source    string   // Path relative to the project root
	Dir       string   // Slash-separated directory of URL ("" at the root)
	Title     string
	Aliases   []string // Extra URLs that redirect to this page
	Weight    int      // Ordering hint, lower first
	IsIndex   bool     // index page of Dir
	IsGlobals bool     // globals page at the root
	Outline   *outline.Outline
}

// Options control loading.
type Options struct {
	Name          string // Defaults to the base name of the directory
	IncludeDrafts bool
	Parser        parser.Options
	Logger        *slog.Logger
}

// Load walks dir and parses every supported file into a page.
func Load(dir string, opts Options) (*Project, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve source dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat source dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", abs)
	}

	p := &Project{Name: opts.Name, Root: abs}
	if p.Name == "" {
		p.Name = filepath.Base(abs)
	}

	byURL := make(map[string]*Page)
	err = filepath.WalkDir(abs, func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if fpath != abs && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !parser.IsSupportedExtension(name) {
			return nil
		}
		rel, err := filepath.Rel(abs, fpath)
		if err != nil {
			return err
		}

		page, err := loadPage(fpath, filepath.ToSlash(rel), opts)
		if err != nil {
			return err
		}
		if page == nil {
			log.Debug("skipping draft", "source", rel)
			return nil
		}
		if prev, ok := byURL[page.URL]; ok {
			return fmt.Errorf("%s and %s: %w %s", prev.Source, page.Source, ErrDuplicateURL, page.URL)
		}
		byURL[page.URL] = page
		p.Pages = append(p.Pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	slices.SortFunc(p.Pages, func(a, b *Page) int { return strings.Compare(a.URL, b.URL) })
	log.Info("loaded project", "name", p.Name, "root", abs, "pages", len(p.Pages))
	return p, nil
}

func loadPage(fpath, rel string, opts Options) (*Page, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	var fm FrontMatter
	if isMarkdown(rel) {
		fm, data, err = splitFrontMatter(data)
		if err != nil {
			return nil, fmt.Errorf("front matter %s: %w", rel, err)
		}
		if fm.Draft && !opts.IncludeDrafts {
			return nil, nil
		}
	}

	ps, err := parser.ForFile(rel, opts.Parser)
	if err != nil {
		return nil, err
	}
	o, err := ps.Parse(bytes.NewReader(data), rel)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}

	url := PageURL(rel)
	dir := path.Dir(url)
	if dir == "." {
		dir = ""
	}
	base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))

	page := &Page{
		URL:       url,
		Source:    rel,
		Dir:       dir,
		Title:     o.Title,
		Weight:    fm.Weight,
		IsIndex:   strings.EqualFold(base, "index") || strings.EqualFold(base, "readme"),
		IsGlobals: dir == "" && strings.EqualFold(base, "globals"),
		Outline:   o,
	}
	if fm.Title != "" {
		page.Title = fm.Title
	}
	for _, a := range fm.Aliases {
		if a = strings.TrimPrefix(path.Clean("/"+a), "/"); a != "" {
			page.Aliases = append(page.Aliases, a)
		}
	}
	return page, nil
}

// PageURL maps a slash-separated source path to its output URL. README files
// become the index page of their directory.
func PageURL(rel string) string {
	dir, file := path.Split(rel)
	base := strings.TrimSuffix(file, path.Ext(file))
	if strings.EqualFold(base, "readme") {
		base = "index"
	}
	return dir + base + ".html"
}

func isMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Page returns the page with the given URL.
func (p *Project) Page(url string) *Page {
	i, ok := slices.BinarySearchFunc(p.Pages, url, func(pg *Page, u string) int {
		return strings.Compare(pg.URL, u)
	})
	if !ok {
		return nil
	}
	return p.Pages[i]
}

// Index returns the index page of dir, or nil.
func (p *Project) Index(dir string) *Page {
	for _, pg := range p.Pages {
		if pg.IsIndex && pg.Dir == dir {
			return pg
		}
	}
	return nil
}

// Dirs returns every directory that holds pages, including intermediate
// ones, sorted. The root directory is "".
func (p *Project) Dirs() []string {
	seen := map[string]bool{"": true}
	for _, pg := range p.Pages {
		for d := pg.Dir; d != "" && !seen[d]; d = ParentDir(d) {
			seen[d] = true
		}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return dirs
}

// ParentDir returns the parent of a slash-separated directory ("" for root).
func ParentDir(d string) string {
	parent := path.Dir(d)
	if parent == "." {
		return ""
	}
	return parent
}
