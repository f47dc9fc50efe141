package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dgallion1/docnav/internal/build"
	"github.com/go-chi/chi/v5"
)

type buildRequest struct {
	IncludeDrafts bool `json:"include_drafts"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	job := build.NewJob(s.cfg.SourceDir, s.cfg.OutDir)
	job.IncludeDrafts = s.cfg.IncludeDrafts || req.IncludeDrafts

	if err := s.orchestrator.Submit(job); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, build.ErrQueueFull) {
			code = http.StatusServiceUnavailable
		}
		jsonError(w, err.Error(), code)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   build.StatusQueued,
		"poll_url": fmt.Sprintf("/api/builds/%s/status", job.ID),
	})
}

func (s *Server) handleBuildStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	name, tree := s.nav.Session()
	stats := map[string]any{
		"queue_depth":    s.orchestrator.QueueDepth(),
		"project":        name,
		"page_render_ms": s.orchestrator.PageLatency(),
		"build_ms":       s.orchestrator.BuildLatency(),
	}
	if tree != nil {
		stats["navigation_items"] = tree.Len()
	}
	writeJSON(w, http.StatusOK, stats)
}
