package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidsub/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "vidsub")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Server.BaseURL != "http://127.0.0.1:5000" {
		t.Fatalf("unexpected base url: %q", cfg.Server.BaseURL)
	}
	if cfg.Submission.DefaultLanguage != "ar" {
		t.Fatalf("unexpected default language: %q", cfg.Submission.DefaultLanguage)
	}
	if cfg.MaxUploadBytes() != 100*1024*1024 {
		t.Fatalf("unexpected upload cap: %d", cfg.MaxUploadBytes())
	}
	if cfg.Polling.MaxTicks != 300 || cfg.Polling.MaxConsecutiveErrors != 10 {
		t.Fatalf("unexpected polling budgets: %+v", cfg.Polling)
	}
	if cfg.Polling.InitialIntervalMS != 2000 || cfg.Polling.MidIntervalMS != 3000 || cfg.Polling.SlowIntervalMS != 5000 {
		t.Fatalf("unexpected polling cadence: %+v", cfg.Polling)
	}
	if cfg.LockPath() != filepath.Join(wantState, "submit.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vidsub.toml")

	type payload struct {
		Server struct {
			BaseURL string `toml:"base_url"`
		} `toml:"server"`
		Submission struct {
			DefaultLanguage string `toml:"default_language"`
		} `toml:"submission"`
		Polling struct {
			MaxTicks int `toml:"max_ticks"`
		} `toml:"polling"`
	}
	custom := payload{}
	custom.Server.BaseURL = "https://subs.example.com/"
	custom.Submission.DefaultLanguage = "EN"
	custom.Polling.MaxTicks = 42

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Server.BaseURL != "https://subs.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Server.BaseURL)
	}
	if cfg.Submission.DefaultLanguage != "en" {
		t.Fatalf("expected lowercased language, got %q", cfg.Submission.DefaultLanguage)
	}
	if cfg.Polling.MaxTicks != 42 {
		t.Fatalf("expected max ticks override, got %d", cfg.Polling.MaxTicks)
	}
	if cfg.Polling.MaxConsecutiveErrors != 10 {
		t.Fatalf("expected default error budget retained, got %d", cfg.Polling.MaxConsecutiveErrors)
	}
}

func TestLoadUsesEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VIDSUB_SERVER_URL", "http://backend.local:8080/")
	t.Setenv("VIDSUB_LANGUAGE", "fr")
	t.Setenv("VIDSUB_LOCALE", "AR")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.BaseURL != "http://backend.local:8080" {
		t.Fatalf("unexpected base url: %q", cfg.Server.BaseURL)
	}
	if cfg.Submission.DefaultLanguage != "fr" {
		t.Fatalf("unexpected language: %q", cfg.Submission.DefaultLanguage)
	}
	if cfg.UI.Locale != "ar" {
		t.Fatalf("unexpected locale: %q", cfg.UI.Locale)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "scheme",
			mutate:  func(c *config.Config) { c.Server.BaseURL = "ftp://example.com" },
			wantErr: "server.base_url",
		},
		{
			name:    "language",
			mutate:  func(c *config.Config) { c.Submission.DefaultLanguage = "xx" },
			wantErr: "submission.default_language",
		},
		{
			name:    "tiers",
			mutate:  func(c *config.Config) { c.Polling.SlowAfterTicks = 2 },
			wantErr: "polling.slow_after_ticks",
		},
		{
			name:    "budget",
			mutate:  func(c *config.Config) { c.Polling.MaxConsecutiveErrors = 0 },
			wantErr: "polling.max_consecutive_errors",
		},
		{
			name:    "ceiling",
			mutate:  func(c *config.Config) { c.Polling.StallProgressCeiling = 150 },
			wantErr: "polling.stall_progress_ceiling",
		},
		{
			name:    "locale",
			mutate:  func(c *config.Config) { c.UI.Locale = "de" },
			wantErr: "ui.locale",
		},
		{
			name:    "format",
			mutate:  func(c *config.Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q in error, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Polling.StallTicks != 15 {
		t.Fatalf("unexpected stall ticks from sample: %d", cfg.Polling.StallTicks)
	}
}
