package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains connection settings for the subtitle backend.
type Server struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
	UploadTimeout  int    `toml:"upload_timeout"`
}

// Submission contains defaults applied to new jobs.
type Submission struct {
	DefaultLanguage string `toml:"default_language"`
	MaxUploadMiB    int    `toml:"max_upload_mib"`
}

// Polling contains the progress poller cadence and budgets.
type Polling struct {
	InitialIntervalMS    int `toml:"initial_interval_ms"`
	MidIntervalMS        int `toml:"mid_interval_ms"`
	SlowIntervalMS       int `toml:"slow_interval_ms"`
	MidAfterTicks        int `toml:"mid_after_ticks"`
	SlowAfterTicks       int `toml:"slow_after_ticks"`
	MaxTicks             int `toml:"max_ticks"`
	MaxConsecutiveErrors int `toml:"max_consecutive_errors"`
	StallTicks           int `toml:"stall_ticks"`
	StallProgressCeiling int `toml:"stall_progress_ceiling"`
}

// Output contains settings for saved subtitle files.
type Output struct {
	Dir      string `toml:"dir"`
	AutoSave bool   `toml:"auto_save"`
}

// UI contains presentation settings.
type UI struct {
	Locale string `toml:"locale"`
}

// Paths contains directories owned by the client.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vidsub.
//
// Configuration sections by subsystem:
//   - Server: backend base URL and request timeouts
//   - Submission: default language and upload size cap
//   - Polling: cadence tiers, tick cap, error budget, stall heuristic
//   - Output: where saved .srt files go
//   - UI: message locale
//   - Paths: state (lock file) and log directories
//   - Logging: log format and level
type Config struct {
	Server     Server     `toml:"server"`
	Submission Submission `toml:"submission"`
	Polling    Polling    `toml:"polling"`
	Output     Output     `toml:"output"`
	UI         UI         `toml:"ui"`
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vidsub/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vidsub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories. The output
// directory is created lazily when a file is saved.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequestTimeout returns the timeout for JSON requests to the backend.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

// UploadTimeout returns the timeout for multipart uploads.
func (c *Config) UploadTimeout() time.Duration {
	return time.Duration(c.Server.UploadTimeout) * time.Second
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Submission.MaxUploadMiB) << 20
}

// LockPath returns the path of the single-submission lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "submit.lock")
}

// LogPath returns the path of the client log file.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "vidsub.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
