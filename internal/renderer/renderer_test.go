package renderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/project"
	"github.com/dgallion1/docnav/internal/theme"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubTheme struct{}

func (stubTheme) Navigation(*project.Project) (*navtree.Tree, error) {
	return navtree.New(navtree.Item{Title: "root"}), nil
}

func (stubTheme) Render(w io.Writer, d *theme.PageData) error {
	_, err := fmt.Fprintf(w, "%s|%s|%s", d.URL, d.RedirectTo, d.Body)
	return err
}

// recorder logs every signal it receives.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (rec *recorder) add(s string) {
	rec.mu.Lock()
	rec.events = append(rec.events, s)
	rec.mu.Unlock()
}

func (rec *recorder) OnBegin(_ context.Context, ev *Event) error {
	rec.add("begin " + ev.Project.Name)
	return nil
}

func (rec *recorder) OnBeginPage(_ context.Context, ev *PageEvent) error {
	rec.add("page " + ev.Page.URL)
	return nil
}

func (rec *recorder) OnEndPage(_ context.Context, ev *PageEvent) error {
	rec.add("end-page " + ev.Page.URL)
	return nil
}

func (rec *recorder) OnEnd(context.Context, *Event) error {
	rec.add("end")
	return nil
}

func init() {
	Register("recorder", func(*Renderer) (any, error) { return &recorder{}, nil })
	Register("broken", func(*Renderer) (any, error) { return nil, errors.New("no config") })
}

func loadProject(t *testing.T, files map[string]string) *project.Project {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	p, err := project.Load(dir, project.Options{Name: "docs", Logger: quiet})
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	return p
}

func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	fn()
}

func TestRegister_Panics(t *testing.T) {
	mustPanic(t, func() { Register("recorder", func(*Renderer) (any, error) { return nil, nil }) })
	mustPanic(t, func() { Register("nil-factory", nil) })
}

func TestPlugins_Sorted(t *testing.T) {
	names := Plugins()
	if !slices.IsSorted(names) {
		t.Errorf("expected sorted names, got %v", names)
	}
	if !slices.Contains(names, "recorder") {
		t.Errorf("expected recorder in %v", names)
	}
}

func TestNew_Plugins(t *testing.T) {
	if _, err := New(stubTheme{}, Options{Plugins: []string{"missing"}, Logger: quiet}); err == nil {
		t.Error("expected error for unknown plugin")
	}
	if _, err := New(stubTheme{}, Options{Plugins: []string{"broken"}, Logger: quiet}); err == nil {
		t.Error("expected error from failing factory")
	}
	if _, err := New(nil, Options{}); err == nil {
		t.Error("expected error without theme")
	}

	r, err := New(stubTheme{}, Options{Plugins: []string{}, Logger: quiet})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Plugin("recorder") != nil {
		t.Error("expected no plugins for an empty list")
	}
	if r.Options().Navigation != navtree.DefaultLimits() {
		t.Errorf("expected default limits, got %+v", r.Options().Navigation)
	}
}

func TestRender_WritesPagesAndRedirects(t *testing.T) {
	p := loadProject(t, map[string]string{
		"index.md": "# Home\n",
		"guide.md": "---\naliases: [old.html, index.html]\n---\n# Guide\n",
	})
	out := t.TempDir()
	r, err := New(stubTheme{}, Options{OutDir: out, Plugins: []string{}, Logger: quiet})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	stats, err := r.Render(context.Background(), p)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Pages != 2 || stats.Redirects != 1 {
		t.Errorf("expected 2 pages and 1 redirect, got %+v", stats)
	}

	data, err := os.ReadFile(filepath.Join(out, "old.html"))
	if err != nil {
		t.Fatalf("read redirect: %v", err)
	}
	if got := string(data); got != "old.html|guide.html|" {
		t.Errorf("expected redirect to guide.html, got %q", got)
	}

	data, err = os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.HasPrefix(string(data), "index.html||") {
		t.Errorf("expected index page not to be replaced by alias, got %q", data)
	}
}

func TestRender_Sanitize(t *testing.T) {
	files := map[string]string{
		"page.html": `<h1 id="top">T</h1><p onclick="steal()">hi</p>`,
	}
	for _, sanitize := range []bool{false, true} {
		p := loadProject(t, files)
		out := t.TempDir()
		r, err := New(stubTheme{}, Options{OutDir: out, Sanitize: sanitize, Plugins: []string{}, Logger: quiet})
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if _, err := r.Render(context.Background(), p); err != nil {
			t.Fatalf("render: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(out, "page.html"))
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		body := string(data)
		if !strings.Contains(body, `id="top"`) {
			t.Errorf("sanitize=%v: expected heading id kept, got %q", sanitize, body)
		}
		if got := strings.Contains(body, "onclick"); got == sanitize {
			t.Errorf("sanitize=%v: unexpected onclick presence %v in %q", sanitize, got, body)
		}
	}
}

func TestRender_SignalOrder(t *testing.T) {
	p := loadProject(t, map[string]string{
		"a.md": "---\naliases: [z.html]\n---\n# A\n",
		"b.md": "# B\n",
	})
	r, err := New(stubTheme{}, Options{Workers: 1, Plugins: []string{"recorder"}, Logger: quiet})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := r.Render(context.Background(), p); err != nil {
		t.Fatalf("render: %v", err)
	}

	rec := r.Plugin("recorder").(*recorder)
	want := []string{
		"begin docs",
		"page a.html", "end-page a.html",
		"page b.html", "end-page b.html",
		"page z.html", "end-page z.html",
		"end",
	}
	if !slices.Equal(rec.events, want) {
		t.Errorf("expected events %v, got %v", want, rec.events)
	}
}

func TestRender_ConcurrentPages(t *testing.T) {
	files := make(map[string]string)
	for i := range 20 {
		files[fmt.Sprintf("p%02d.md", i)] = fmt.Sprintf("# Page %d\n", i)
	}
	p := loadProject(t, files)
	r, err := New(stubTheme{}, Options{Workers: 8, Plugins: []string{"recorder"}, Logger: quiet})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	stats, err := r.Render(context.Background(), p)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Pages != 20 {
		t.Errorf("expected 20 pages, got %d", stats.Pages)
	}
	rec := r.Plugin("recorder").(*recorder)
	if len(rec.events) != 2+2*20 {
		t.Errorf("expected %d events, got %d", 2+2*20, len(rec.events))
	}
	if rec.events[0] != "begin docs" || rec.events[len(rec.events)-1] != "end" {
		t.Errorf("expected begin first and end last, got %v", rec.events)
	}
}

func TestRender_BeginErrorAborts(t *testing.T) {
	p := loadProject(t, map[string]string{"a.md": "# A\n"})
	r, err := New(stubTheme{}, Options{Plugins: []string{"recorder"}, Logger: quiet})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	boom := errors.New("boom")
	r.OnBegin(func(context.Context, *Event) error { return boom })

	if _, err := r.Render(context.Background(), p); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	rec := r.Plugin("recorder").(*recorder)
	if !slices.Equal(rec.events, []string{"begin docs"}) {
		t.Errorf("expected no page signals, got %v", rec.events)
	}
}

func TestRender_PageErrorAborts(t *testing.T) {
	p := loadProject(t, map[string]string{"a.md": "# A\n", "b.md": "# B\n"})
	out := t.TempDir()
	r, err := New(stubTheme{}, Options{OutDir: out, Workers: 1, Plugins: []string{}, Logger: quiet})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	boom := errors.New("boom")
	r.OnBeginPage(func(_ context.Context, ev *PageEvent) error {
		if ev.Page.URL == "a.html" {
			return boom
		}
		return nil
	})
	ended := false
	r.OnEnd(func(context.Context, *Event) error {
		ended = true
		return nil
	})

	_, err = r.Render(context.Background(), p)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !strings.Contains(err.Error(), "a.html") {
		t.Errorf("expected page url in error, got %v", err)
	}
	if ended {
		t.Error("expected end signal to be skipped")
	}
	if _, err := os.Stat(filepath.Join(out, "a.html")); !os.IsNotExist(err) {
		t.Errorf("expected a.html not to be written, got %v", err)
	}
}

func TestRender_PageHandlerFillsData(t *testing.T) {
	p := loadProject(t, map[string]string{"a.md": "# A\n"})
	out := t.TempDir()
	r, err := New(stubTheme{}, Options{OutDir: out, Plugins: []string{}, Logger: quiet})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	r.OnBeginPage(func(_ context.Context, ev *PageEvent) error {
		ev.Page.Body = "replaced"
		return nil
	})
	if _, err := r.Render(context.Background(), p); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "a.html"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(data); got != "a.html||replaced" {
		t.Errorf("expected handler body, got %q", got)
	}
}
