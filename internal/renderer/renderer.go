package renderer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/project"
	"github.com/dgallion1/docnav/internal/theme"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"
)

// Event is passed to the begin and end signals of a render.
type Event struct {
	Project  *project.Project
	Renderer *Renderer
}

// PageEvent is passed to the per-page signals. Page is the data the layout
// will be executed with; handlers of the begin-page signal may fill it in.
type PageEvent struct {
	Project *project.Project
	Page    *theme.PageData
	Started time.Time // When work on the page began
}

// BeginHandler is implemented by plugins that run once before any page.
type BeginHandler interface {
	OnBegin(ctx context.Context, ev *Event) error
}

// PageHandler is implemented by plugins that run before each page is laid out.
type PageHandler interface {
	OnBeginPage(ctx context.Context, ev *PageEvent) error
}

// EndPageHandler is implemented by plugins that run after each page is written.
type EndPageHandler interface {
	OnEndPage(ctx context.Context, ev *PageEvent) error
}

// EndHandler is implemented by plugins that run once after every page.
type EndHandler interface {
	OnEnd(ctx context.Context, ev *Event) error
}

// Options configure a Renderer.
type Options struct {
	OutDir     string // Output directory; empty renders without writing files
	Workers    int    // Pages rendered concurrently (default 4)
	Sanitize   bool   // Clean page bodies before layout
	Navigation navtree.Limits
	Plugins    []string // Registered plugins to enable; nil enables all
	Logger     *slog.Logger
}

// Stats summarize a finished render.
type Stats struct {
	Pages     int
	Redirects int
}

// Renderer turns a project into an output site, driving the lifecycle
// signals its plugins subscribe to.
type Renderer struct {
	theme   theme.Theme
	opts    Options
	log     *slog.Logger
	policy  *bluemonday.Policy
	plugins map[string]any

	begin     []func(context.Context, *Event) error
	beginPage []func(context.Context, *PageEvent) error
	endPage   []func(context.Context, *PageEvent) error
	end       []func(context.Context, *Event) error
}

// New creates a renderer for th and instantiates its plugins.
func New(th theme.Theme, opts Options) (*Renderer, error) {
	if th == nil {
		return nil, fmt.Errorf("renderer: theme is required")
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Navigation == (navtree.Limits{}) {
		opts.Navigation = navtree.DefaultLimits()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := &Renderer{
		theme:   th,
		opts:    opts,
		log:     opts.Logger,
		plugins: make(map[string]any),
	}
	if opts.Sanitize {
		r.policy = bluemonday.UGCPolicy()
		r.policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "tbody")
	}

	names := opts.Plugins
	if names == nil {
		names = Plugins()
	}
	for _, name := range names {
		f := lookup(name)
		if f == nil {
			return nil, fmt.Errorf("renderer: unknown plugin %q", name)
		}
		p, err := f(r)
		if err != nil {
			return nil, fmt.Errorf("create plugin %s: %w", name, err)
		}
		r.plugins[name] = p
		r.subscribe(p)
	}
	r.log.Debug("renderer created", "plugins", names, "workers", opts.Workers)
	return r, nil
}

func (r *Renderer) subscribe(p any) {
	if h, ok := p.(BeginHandler); ok {
		r.OnBegin(h.OnBegin)
	}
	if h, ok := p.(PageHandler); ok {
		r.OnBeginPage(h.OnBeginPage)
	}
	if h, ok := p.(EndPageHandler); ok {
		r.OnEndPage(h.OnEndPage)
	}
	if h, ok := p.(EndHandler); ok {
		r.OnEnd(h.OnEnd)
	}
}

// OnBegin subscribes fn to the begin signal. Subscriptions must happen
// before Render is called.
func (r *Renderer) OnBegin(fn func(context.Context, *Event) error) {
	r.begin = append(r.begin, fn)
}

// OnBeginPage subscribes fn to the begin-page signal.
func (r *Renderer) OnBeginPage(fn func(context.Context, *PageEvent) error) {
	r.beginPage = append(r.beginPage, fn)
}

// OnEndPage subscribes fn to the end-page signal.
func (r *Renderer) OnEndPage(fn func(context.Context, *PageEvent) error) {
	r.endPage = append(r.endPage, fn)
}

// OnEnd subscribes fn to the end signal.
func (r *Renderer) OnEnd(fn func(context.Context, *Event) error) {
	r.end = append(r.end, fn)
}

// Theme returns the theme pages are laid out with.
func (r *Renderer) Theme() theme.Theme { return r.theme }

// Options returns the options with defaults applied.
func (r *Renderer) Options() Options { return r.opts }

// Logger returns the renderer's logger, never nil.
func (r *Renderer) Logger() *slog.Logger { return r.log }

// Plugin returns the instance of the named plugin, or nil.
func (r *Renderer) Plugin(name string) any { return r.plugins[name] }

type job struct {
	page       *project.Page
	url        string
	redirectTo string
}

// Render renders every page of p. Begin handlers run first, serially; pages
// are then rendered by a pool of workers, each page's handlers running in
// order; end handlers run last. The first error aborts the render.
func (r *Renderer) Render(ctx context.Context, p *project.Project) (Stats, error) {
	var stats Stats
	ev := &Event{Project: p, Renderer: r}
	for _, fn := range r.begin {
		if err := fn(ctx, ev); err != nil {
			return stats, fmt.Errorf("begin render: %w", err)
		}
	}

	jobs := r.jobs(p)
	var pages, redirects atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := r.renderPage(gctx, p, j); err != nil {
				return fmt.Errorf("render %s: %w", j.url, err)
			}
			if j.redirectTo != "" {
				redirects.Add(1)
			} else {
				pages.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	stats.Pages = int(pages.Load())
	stats.Redirects = int(redirects.Load())
	if err != nil {
		return stats, err
	}

	for _, fn := range r.end {
		if err := fn(ctx, ev); err != nil {
			return stats, fmt.Errorf("end render: %w", err)
		}
	}
	r.log.Info("render complete", "project", p.Name, "pages", stats.Pages, "redirects", stats.Redirects)
	return stats, nil
}

// jobs lists the pages followed by one redirect per alias. An alias that
// names a page, or one already claimed by an earlier page, is skipped.
func (r *Renderer) jobs(p *project.Project) []job {
	out := make([]job, 0, len(p.Pages))
	claimed := make(map[string]string)
	for _, pg := range p.Pages {
		out = append(out, job{page: pg, url: pg.URL})
		claimed[pg.URL] = pg.URL
	}
	for _, pg := range p.Pages {
		for _, alias := range pg.Aliases {
			if owner, ok := claimed[alias]; ok {
				r.log.Warn("alias already in use", "alias", alias, "page", pg.URL, "owner", owner)
				continue
			}
			claimed[alias] = pg.URL
			out = append(out, job{page: pg, url: alias, redirectTo: pg.URL})
		}
	}
	return out
}

func (r *Renderer) renderPage(ctx context.Context, p *project.Project, j job) error {
	started := time.Now()
	data := &theme.PageData{
		Project:    p,
		Page:       j.page,
		URL:        j.url,
		RedirectTo: j.redirectTo,
	}
	if j.redirectTo == "" && j.page.Outline != nil {
		body := j.page.Outline.HTML
		if r.policy != nil {
			body = r.policy.Sanitize(body)
		}
		data.Body = template.HTML(body)
	}

	ev := &PageEvent{Project: p, Page: data, Started: started}
	for _, fn := range r.beginPage {
		if err := fn(ctx, ev); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := r.theme.Render(&buf, data); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if r.opts.OutDir != "" {
		dst := filepath.Join(r.opts.OutDir, filepath.FromSlash(j.url))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	for _, fn := range r.endPage {
		if err := fn(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
