package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeServer()
	c.normalizeSubmission()
	c.normalizeUI()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeServer() {
	if value, ok := os.LookupEnv("VIDSUB_SERVER_URL"); ok && strings.TrimSpace(value) != "" {
		c.Server.BaseURL = value
	}
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaultServerURL
	}
}

func (c *Config) normalizeSubmission() {
	if value, ok := os.LookupEnv("VIDSUB_LANGUAGE"); ok && strings.TrimSpace(value) != "" {
		c.Submission.DefaultLanguage = value
	}
	c.Submission.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.Submission.DefaultLanguage))
	if c.Submission.DefaultLanguage == "" {
		c.Submission.DefaultLanguage = defaultLanguage
	}
}

func (c *Config) normalizeUI() {
	if value, ok := os.LookupEnv("VIDSUB_LOCALE"); ok && strings.TrimSpace(value) != "" {
		c.UI.Locale = value
	}
	c.UI.Locale = strings.ToLower(strings.TrimSpace(c.UI.Locale))
	if c.UI.Locale == "" {
		c.UI.Locale = defaultLocale
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}
	if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
