package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
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
	return dir
}

func TestLoad_AssignsURLs(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"README.md":           "# Home\n",
		"globals.md":          "# Globals\n",
		"guide/index.md":      "# Guide\n",
		"guide/install.md":    "---\ntitle: Installing\nweight: 2\naliases: [/setup.html]\n---\n# Install\n",
		"guide/deep/notes.txt": "some notes",
		"ref/api.html":        "<title>API</title><h1>API</h1>",
		".hidden/skip.md":     "# nope",
		"image.png":           "binary",
	})

	p, err := Load(dir, Options{Name: "Docs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Docs" {
		t.Errorf("expected name %q, got %q", "Docs", p.Name)
	}

	var urls []string
	for _, pg := range p.Pages {
		urls = append(urls, pg.URL)
	}
	want := []string{
		"globals.html",
		"guide/deep/notes.html",
		"guide/index.html",
		"guide/install.html",
		"index.html",
		"ref/api.html",
	}
	if !reflect.DeepEqual(urls, want) {
		t.Fatalf("expected urls %v, got %v", want, urls)
	}

	home := p.Page("index.html")
	if home == nil || !home.IsIndex || home.Dir != "" || home.Title != "Home" {
		t.Errorf("unexpected home page: %+v", home)
	}
	if g := p.Page("globals.html"); g == nil || !g.IsGlobals {
		t.Error("expected globals page to be flagged")
	}

	inst := p.Page("guide/install.html")
	if inst.Title != "Installing" {
		t.Errorf("expected front matter title, got %q", inst.Title)
	}
	if inst.Weight != 2 {
		t.Errorf("expected weight 2, got %d", inst.Weight)
	}
	if !reflect.DeepEqual(inst.Aliases, []string{"setup.html"}) {
		t.Errorf("expected normalised alias, got %v", inst.Aliases)
	}
	if inst.Dir != "guide" {
		t.Errorf("expected dir %q, got %q", "guide", inst.Dir)
	}

	if idx := p.Index("guide"); idx == nil || idx.URL != "guide/index.html" {
		t.Errorf("expected guide index page, got %+v", idx)
	}
	if p.Index("ref") != nil {
		t.Error("expected no index page for ref")
	}

	wantDirs := []string{"", "guide", "guide/deep", "ref"}
	if !reflect.DeepEqual(p.Dirs(), wantDirs) {
		t.Errorf("expected dirs %v, got %v", wantDirs, p.Dirs())
	}
}

func TestLoad_Drafts(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.md": "---\ndraft: true\n---\n# Draft\n",
		"b.md": "# Published\n",
	})

	p, err := Load(dir, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Pages) != 1 || p.Pages[0].URL != "b.html" {
		t.Errorf("expected only b.html, got %d pages", len(p.Pages))
	}

	p, err = Load(dir, Options{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Pages) != 2 {
		t.Errorf("expected drafts to be included, got %d pages", len(p.Pages))
	}
}

func TestLoad_DuplicateURL(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.md":   "# A\n",
		"a.html": "<h1>A</h1>",
	})
	_, err := Load(dir, Options{})
	if !errors.Is(err, ErrDuplicateURL) {
		t.Fatalf("expected ErrDuplicateURL, got %v", err)
	}
}

func TestLoad_NotADirectory(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.md": "# A\n"})
	if _, err := Load(filepath.Join(dir, "a.md"), Options{}); err == nil {
		t.Fatal("expected error for a file path")
	}
	if _, err := Load(filepath.Join(dir, "missing"), Options{}); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantTitle string
		wantBody  string
	}{
		{"none", "# Hello\n", "", "# Hello\n"},
		{"basic", "---\ntitle: T\n---\nbody\n", "T", "body\n"},
		{"crlf", "---\r\ntitle: T\r\n---\r\nbody", "T", "body"},
		{"thematic break", "----\ntext\n", "", "----\ntext\n"},
		{"unterminated", "---\ntitle: T\nbody\n", "", "---\ntitle: T\nbody\n"},
		{"closing at eof", "---\ntitle: T\n---", "T", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := splitFrontMatter([]byte(tt.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fm.Title != tt.wantTitle {
				t.Errorf("expected title %q, got %q", tt.wantTitle, fm.Title)
			}
			if string(body) != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, body)
			}
		})
	}
}

func TestSplitFrontMatter_InvalidYAML(t *testing.T) {
	if _, _, err := splitFrontMatter([]byte("---\ntitle: [unclosed\n---\n")); err == nil {
		t.Fatal("expected yaml error")
	}
}

func TestPageURL(t *testing.T) {
	tests := map[string]string{
		"index.md":          "index.html",
		"README.md":         "index.html",
		"guide/readme.txt":  "guide/index.html",
		"guide/install.md":  "guide/install.html",
		"ref/api.htm":       "ref/api.html",
		"data/parts.v2.csv": "data/parts.v2.html",
	}
	for in, want := range tests {
		if got := PageURL(in); got != want {
			t.Errorf("PageURL(%q): expected %q, got %q", in, want, got)
		}
	}
}
