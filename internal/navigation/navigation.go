// Package navigation is the renderer plugin that marks, for every page, which
// navigation entries are current, on the path to the current entry, and
// visible in the sidebar.
//
// Importing the package registers the plugin under the name "navigation".
package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/project"
	"github.com/dgallion1/docnav/internal/renderer"
	"github.com/dgallion1/docnav/internal/theme"
)

// Name is the plugin's registered name.
const Name = "navigation"

// ErrNotInitialized is returned when a page is annotated before a tree was
// built for the session.
var ErrNotInitialized = errors.New("navigation: annotate called before initialize")

func init() {
	renderer.Register(Name, func(r *renderer.Renderer) (any, error) {
		return New(r.Theme(), r.Options().Navigation, r.Logger()), nil
	})
}

// Annotator holds the navigation tree of the current render session.
type Annotator struct {
	theme  theme.Theme
	limits navtree.Limits
	log    *slog.Logger

	mu      sync.RWMutex
	tree    *navtree.Tree
	project string
}

// New creates an annotator that asks th for the navigation tree. A zero lim
// means navtree.DefaultLimits.
func New(th theme.Theme, lim navtree.Limits, log *slog.Logger) *Annotator {
	if log == nil {
		log = slog.Default()
	}
	if lim == (navtree.Limits{}) {
		lim = navtree.DefaultLimits()
	}
	return &Annotator{theme: th, limits: lim, log: log.With("plugin", Name)}
}

// Initialize builds the tree for p, replacing the tree of any previous
// session.
func (a *Annotator) Initialize(p *project.Project) error {
	tree, err := a.theme.Navigation(p)
	if err != nil {
		return fmt.Errorf("build navigation for %s: %w", p.Name, err)
	}
	a.mu.Lock()
	a.tree = tree
	a.project = p.Name
	a.mu.Unlock()
	a.log.Debug("navigation initialized", "project", p.Name, "items", tree.Len())
	return nil
}

// Tree returns the current session's tree, or nil before Initialize.
func (a *Annotator) Tree() *navtree.Tree {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tree
}

// Project returns the name of the project the tree was built for.
func (a *Annotator) Project() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.project
}

// Session returns the project name and tree of the current session as one
// consistent pair. The tree is nil before Initialize.
func (a *Annotator) Session() (string, *navtree.Tree) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.project, a.tree
}

// Annotate computes the navigation state for the page at url.
func (a *Annotator) Annotate(url string) (*navtree.Annotation, error) {
	_, ann, err := a.AnnotateSession(url)
	return ann, err
}

// AnnotateSession is Annotate that also returns the name of the project the
// annotated tree belongs to.
func (a *Annotator) AnnotateSession(url string) (string, *navtree.Annotation, error) {
	name, tree := a.Session()
	if tree == nil {
		return "", nil, ErrNotInitialized
	}
	ann := tree.Annotate(url, a.limits)
	if len(ann.Current()) == 0 {
		a.log.Debug("page not in navigation", "url", url)
	}
	return name, ann, nil
}

// OnBegin initializes the tree for the project being rendered.
func (a *Annotator) OnBegin(_ context.Context, ev *renderer.Event) error {
	return a.Initialize(ev.Project)
}

// OnBeginPage stores the page's annotation in its navigation slot.
func (a *Annotator) OnBeginPage(_ context.Context, ev *renderer.PageEvent) error {
	ann, err := a.Annotate(ev.Page.URL)
	if err != nil {
		return err
	}
	ev.Page.Navigation = ann
	return nil
}
