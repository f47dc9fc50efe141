package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/project"
	"gopkg.in/yaml.v3"
)

// loadMenu reads the project's menu file. It returns nil when the project
// has none.
//
// The file is a YAML list of entries:
//
//	- title: Guide
//	  url: guide/index.html
//	  aliases: [start.html]
//	  children:
//	    - url: guide/install.html
//	- title: Globals
//	  url: globals.html
//	  globals: true
//
// Entries pointing at a page may omit the title.
func loadMenu(p *project.Project) (*navtree.Node, error) {
	data, err := os.ReadFile(filepath.Join(p.Root, project.MenuFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	return parseMenu(p, data)
}

func parseMenu(p *project.Project, data []byte) (*navtree.Node, error) {
	var items []*navtree.Node
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}

	root := &navtree.Node{Title: p.Name, Children: items}
	if idx := p.Index(""); idx != nil {
		root.URL = idx.URL
		root.DedicatedURLs = idx.Aliases
	}

	var check func([]*navtree.Node) error
	check = func(nodes []*navtree.Node) error {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			if err := resolveEntry(p, n); err != nil {
				return err
			}
			if err := check(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(items); err != nil {
		return nil, err
	}
	return root, nil
}

// resolveEntry fills a missing title from the linked page, adds the page's
// aliases to entries linking the whole page and rejects links to pages the
// project does not have.
func resolveEntry(p *project.Project, n *navtree.Node) error {
	if n.URL == "" || strings.Contains(n.URL, "://") || strings.HasPrefix(n.URL, "/") {
		if n.Title == "" {
			return fmt.Errorf("menu entry without title or page url")
		}
		return nil
	}
	pageURL, _, fragment := strings.Cut(n.URL, "#")
	pg := p.Page(pageURL)
	if pg == nil {
		return fmt.Errorf("menu entry %q: no page %s", n.Title, pageURL)
	}
	if n.Title == "" {
		n.Title = pg.Title
	}
	if !fragment {
		for _, a := range pg.Aliases {
			if !slices.Contains(n.DedicatedURLs, a) {
				n.DedicatedURLs = append(n.DedicatedURLs, a)
			}
		}
	}
	return nil
}
