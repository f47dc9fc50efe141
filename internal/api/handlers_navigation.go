package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/docnav/internal/navigation"
	"github.com/dgallion1/docnav/internal/parser"
	"github.com/dgallion1/docnav/internal/project"
)

// handleNavigation returns the navigation state for one page of the current
// session.
func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		jsonError(w, "url query parameter is required", http.StatusBadRequest)
		return
	}
	visibleOnly, _ := strconv.ParseBool(r.URL.Query().Get("visible"))

	name, ann, err := s.nav.AnnotateSession(url)
	if errors.Is(err, navigation.ErrNotInitialized) {
		jsonError(w, "no navigation session; run a build or reload first", http.StatusConflict)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	breadcrumb := ann.Breadcrumb()
	if breadcrumb == nil {
		breadcrumb = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"project":    name,
		"url":        url,
		"matched":    len(ann.Current()),
		"breadcrumb": breadcrumb,
		"tree":       ann.View(visibleOnly),
	})
}

// handleReload loads the source directory and starts a new navigation
// session without rendering.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	p, err := project.Load(s.cfg.SourceDir, project.Options{
		Name:          s.cfg.ProjectName,
		IncludeDrafts: s.cfg.IncludeDrafts,
		Parser:        parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext},
		Logger:        s.log,
	})
	if err != nil {
		s.log.Error("reload failed", "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := s.nav.Initialize(p); err != nil {
		s.log.Error("reload failed", "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	name, tree := s.nav.Session()
	writeJSON(w, http.StatusOK, map[string]any{
		"project": name,
		"pages":   len(p.Pages),
		"items":   tree.Len(),
	})
}
