package testsupport

import (
	"path/filepath"
	"testing"

	"vidsub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Server.BaseURL = "http://127.0.0.1:1"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Output.Dir = filepath.Join(base, "out")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithServerURL points the test config at a fake backend.
func WithServerURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.BaseURL = url
	}
}

// WithFastPolling shrinks every poll interval to a millisecond so full
// poll runs finish quickly.
func WithFastPolling() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Polling.InitialIntervalMS = 1
		b.cfg.Polling.MidIntervalMS = 1
		b.cfg.Polling.SlowIntervalMS = 1
	}
}

// WithLanguage overrides the default submission language.
func WithLanguage(code string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Submission.DefaultLanguage = code
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
