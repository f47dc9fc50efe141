package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Site
	SourceDir   string
	OutDir      string
	ProjectName string

	// Auth
	APIKey string

	// Build queue
	WorkerCount  int
	MaxQueueSize int
	JobTTL       time.Duration

	// Rendering
	RenderWorkers int
	SanitizeHTML  bool
	IncludeDrafts bool

	// Navigation
	NavExpandDepth  int
	NavFanOut       int
	NavHeadingDepth int

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		SourceDir:   os.Getenv("DOCNAV_SOURCE_DIR"),
		OutDir:      envOr("DOCNAV_OUT_DIR", "./site"),
		ProjectName: os.Getenv("DOCNAV_PROJECT_NAME"),

		APIKey: os.Getenv("DOCNAV_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 1),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 10),
		JobTTL:       envDuration("JOB_TTL", 1*time.Hour),

		RenderWorkers: envInt("RENDER_WORKERS", 4),
		SanitizeHTML:  envBool("SANITIZE_HTML", true),
		IncludeDrafts: envBool("INCLUDE_DRAFTS", false),

		NavExpandDepth:  envInt("NAV_EXPAND_DEPTH", 2),
		NavFanOut:       envInt("NAV_FAN_OUT", 30),
		NavHeadingDepth: envInt("NAV_HEADING_DEPTH", 2),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.ProjectName == "" && cfg.SourceDir != "" {
		cfg.ProjectName = filepath.Base(filepath.Clean(cfg.SourceDir))
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 10
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.RenderWorkers <= 0 {
		cfg.RenderWorkers = 4
	}
	if cfg.NavExpandDepth < 0 {
		cfg.NavExpandDepth = 2
	}
	if cfg.NavFanOut <= 0 {
		cfg.NavFanOut = 30
	}
	if cfg.NavHeadingDepth < 0 {
		cfg.NavHeadingDepth = 0
	}

	return cfg
}

func (c Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("DOCNAV_SOURCE_DIR is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("DOCNAV_OUT_DIR must not be empty")
	}
	if filepath.Clean(c.OutDir) == filepath.Clean(c.SourceDir) {
		return fmt.Errorf("DOCNAV_OUT_DIR must differ from DOCNAV_SOURCE_DIR")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
