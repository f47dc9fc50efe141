package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/parser"
	"github.com/dgallion1/docnav/internal/project"
	"github.com/dgallion1/docnav/internal/renderer"
	"github.com/dgallion1/docnav/internal/theme"
)

// Worker runs one build at a time.
type Worker struct {
	theme theme.Theme
	cfg   config.Config
	log   *slog.Logger

	// onDone runs after a successful render, before the job is marked
	// completed.
	onDone func(*project.Project)

	pageTimes, buildTimes *Latency
}

func NewWorker(th theme.Theme, cfg config.Config, log *slog.Logger) *Worker {
	return &Worker{theme: th, cfg: cfg, log: log}
}

// Process loads and renders the job's project. It returns the project when
// the build completed, nil otherwise.
func (w *Worker) Process(ctx context.Context, job *Job) *project.Project {
	log := w.log.With("job_id", job.ID)
	start := time.Now()

	// Phase 1: Load
	job.SetStatus(StatusLoading, "loading")
	p, err := project.Load(job.SourceDir, project.Options{
		Name:          w.cfg.ProjectName,
		IncludeDrafts: job.IncludeDrafts,
		Parser:        parser.Options{PDFFallbackPdftotext: w.cfg.PDFFallbackPdftotext},
		Logger:        log,
	})
	if err != nil {
		log.Error("load failed", "error", err)
		job.Fail("loading", err)
		return nil
	}
	job.SetTotalPages(len(p.Pages))

	// Phase 2: Render
	job.SetStatus(StatusRendering, "rendering")
	r, err := renderer.New(w.theme, renderer.Options{
		OutDir:   job.OutDir,
		Workers:  w.cfg.RenderWorkers,
		Sanitize: w.cfg.SanitizeHTML,
		Navigation: navtree.Limits{
			ExpandDepth: w.cfg.NavExpandDepth,
			FanOut:      w.cfg.NavFanOut,
		},
		Logger: log,
	})
	if err != nil {
		log.Error("renderer setup failed", "error", err)
		job.Fail("rendering", err)
		return nil
	}
	r.OnEndPage(func(_ context.Context, ev *renderer.PageEvent) error {
		if ev.Page.RedirectTo == "" {
			job.IncrPagesRendered()
		}
		if w.pageTimes != nil {
			w.pageTimes.Record(time.Since(ev.Started))
		}
		return nil
	})

	stats, err := r.Render(ctx, p)
	job.SetRedirects(stats.Redirects)
	if err != nil {
		log.Error("render failed", "error", err)
		job.Fail("rendering", err)
		return nil
	}

	elapsed := time.Since(start)
	if w.buildTimes != nil {
		w.buildTimes.Record(elapsed)
	}
	log.Info("build complete", "pages", stats.Pages, "redirects", stats.Redirects, "duration_ms", elapsed.Milliseconds())
	if w.onDone != nil {
		w.onDone(p)
	}
	job.SetStatus(StatusCompleted, "done")
	return p
}
