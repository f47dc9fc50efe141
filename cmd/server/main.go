package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docnav/internal/api"
	"github.com/dgallion1/docnav/internal/build"
	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/navigation"
	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/theme"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	th, err := theme.NewDefault(cfg.NavHeadingDepth, log)
	if err != nil {
		log.Error("theme setup failed", "error", err)
		os.Exit(1)
	}

	// Navigation session for the API; builds get their own via the renderer.
	nav := navigation.New(th, navtree.Limits{
		ExpandDepth: cfg.NavExpandDepth,
		FanOut:      cfg.NavFanOut,
	}, log)

	// Initialize build pipeline.
	orch := build.NewOrchestrator(cfg, th, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, nav, log, cfg)

	// Initial build so the site and navigation are available right away.
	job := build.NewJob(cfg.SourceDir, cfg.OutDir)
	job.IncludeDrafts = cfg.IncludeDrafts
	if err := orch.Submit(job); err != nil {
		log.Warn("initial build not queued", "error", err)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting docnav", "port", cfg.Port, "source", cfg.SourceDir, "out", cfg.OutDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
