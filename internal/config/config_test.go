package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DOCNAV_SOURCE_DIR", "/srv/docs/")
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %s", cfg.Port)
	}
	if cfg.ProjectName != "docs" {
		t.Errorf("expected project name docs, got %q", cfg.ProjectName)
	}
	if cfg.OutDir != "./site" {
		t.Errorf("expected out dir ./site, got %q", cfg.OutDir)
	}
	if cfg.NavExpandDepth != 2 || cfg.NavFanOut != 30 {
		t.Errorf("expected limits 2/30, got %d/%d", cfg.NavExpandDepth, cfg.NavFanOut)
	}
	if !cfg.SanitizeHTML || cfg.IncludeDrafts {
		t.Errorf("expected sanitize on and drafts off, got %v/%v", cfg.SanitizeHTML, cfg.IncludeDrafts)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h ttl, got %s", cfg.JobTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DOCNAV_SOURCE_DIR", "/srv/docs")
	t.Setenv("DOCNAV_PROJECT_NAME", "Manual")
	t.Setenv("NAV_FAN_OUT", "12")
	t.Setenv("RENDER_WORKERS", "-3")
	t.Setenv("JOB_TTL", "5m")
	t.Setenv("SANITIZE_HTML", "false")
	t.Setenv("WORKER_COUNT", "not-a-number")
	cfg := Load()

	if cfg.ProjectName != "Manual" {
		t.Errorf("expected Manual, got %q", cfg.ProjectName)
	}
	if cfg.NavFanOut != 12 {
		t.Errorf("expected fan-out 12, got %d", cfg.NavFanOut)
	}
	if cfg.RenderWorkers != 4 {
		t.Errorf("expected invalid worker count to fall back to 4, got %d", cfg.RenderWorkers)
	}
	if cfg.WorkerCount != 1 {
		t.Errorf("expected unparsable worker count to fall back to 1, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 5*time.Minute {
		t.Errorf("expected 5m ttl, got %s", cfg.JobTTL)
	}
	if cfg.SanitizeHTML {
		t.Error("expected sanitize off")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing source", Config{OutDir: "site"}, true},
		{"missing out", Config{SourceDir: "docs"}, true},
		{"same dirs", Config{SourceDir: "docs", OutDir: "./docs"}, true},
		{"ok", Config{SourceDir: "docs", OutDir: "site"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
