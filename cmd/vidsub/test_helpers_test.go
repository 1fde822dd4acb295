package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"vidsub/internal/config"
	"vidsub/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	backend    *testsupport.FakeBackend
	configPath string
	baseDir    string

	mu     sync.Mutex
	copied []string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	fb := testsupport.NewFakeBackend(t, "job-1")
	cfg := testsupport.NewConfig(t, testsupport.WithServerURL(fb.URL), testsupport.WithFastPolling())
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("VIDSUB_SERVER_URL", "")
	t.Setenv("VIDSUB_LANGUAGE", "")
	t.Setenv("VIDSUB_LOCALE", "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		backend:    fb,
		configPath: configPath,
		baseDir:    base,
	}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	ctx := newCommandContext(&globalFlags{})
	ctx.clipboard = func(text string) error {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.copied = append(e.copied, text)
		return nil
	}
	cmd := buildRootCommand(ctx)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) clipboardWrites() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.copied...)
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[server]
base_url = %q

[polling]
initial_interval_ms = %d
mid_interval_ms = %d
slow_interval_ms = %d
max_consecutive_errors = %d

[output]
dir = %q

[paths]
state_dir = %q
log_dir = %q
`,
		cfg.Server.BaseURL,
		cfg.Polling.InitialIntervalMS,
		cfg.Polling.MidIntervalMS,
		cfg.Polling.SlowIntervalMS,
		cfg.Polling.MaxConsecutiveErrors,
		cfg.Output.Dir,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", substr, output)
	}
}
