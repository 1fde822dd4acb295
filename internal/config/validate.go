package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"vidsub/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSubmission(); err != nil {
		return err
	}
	if err := c.validatePolling(); err != nil {
		return err
	}
	if err := c.validateUI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("server.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server.base_url must use http or https, got %q", c.Server.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("server.base_url must include a host, got %q", c.Server.BaseURL)
	}
	return ensurePositiveMap(map[string]int{
		"server.request_timeout": c.Server.RequestTimeout,
		"server.upload_timeout":  c.Server.UploadTimeout,
	})
}

func (c *Config) validateSubmission() error {
	if !language.Supported(c.Submission.DefaultLanguage) {
		return fmt.Errorf("submission.default_language %q is not supported (expected one of %s)",
			c.Submission.DefaultLanguage, strings.Join(language.Codes(), ", "))
	}
	if c.Submission.MaxUploadMiB <= 0 {
		return errors.New("submission.max_upload_mib must be positive")
	}
	return nil
}

func (c *Config) validatePolling() error {
	p := c.Polling
	if err := ensurePositiveMap(map[string]int{
		"polling.initial_interval_ms":    p.InitialIntervalMS,
		"polling.mid_interval_ms":        p.MidIntervalMS,
		"polling.slow_interval_ms":       p.SlowIntervalMS,
		"polling.max_ticks":              p.MaxTicks,
		"polling.max_consecutive_errors": p.MaxConsecutiveErrors,
		"polling.stall_ticks":            p.StallTicks,
	}); err != nil {
		return err
	}
	if p.MidAfterTicks < 0 || p.SlowAfterTicks < 0 {
		return errors.New("polling.mid_after_ticks and polling.slow_after_ticks must not be negative")
	}
	if p.SlowAfterTicks < p.MidAfterTicks {
		return errors.New("polling.slow_after_ticks must be greater than or equal to polling.mid_after_ticks")
	}
	if p.StallProgressCeiling < 0 || p.StallProgressCeiling > 100 {
		return errors.New("polling.stall_progress_ceiling must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateUI() error {
	switch c.UI.Locale {
	case "en", "ar":
		return nil
	default:
		return fmt.Errorf("ui.locale: unsupported value %q (expected en or ar)", c.UI.Locale)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
