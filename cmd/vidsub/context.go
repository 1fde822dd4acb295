package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vidsub/internal/config"
	"vidsub/internal/logging"
	"vidsub/internal/messages"
	"vidsub/internal/services"
	"vidsub/internal/services/backend"
)

type globalFlags struct {
	config  string
	server  string
	locale  string
	verbose bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	// clipboard replaces the system clipboard in tests.
	clipboard func(string) error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if server := strings.TrimSpace(c.flags.server); server != "" {
			cfg.Server.BaseURL = strings.TrimRight(server, "/")
		}
		if locale := strings.TrimSpace(c.flags.locale); locale != "" {
			cfg.UI.Locale = locale
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// printer resolves the message locale from the flag, then config, then the
// environment, so errors before config load still render localized.
func (c *commandContext) printer() *messages.Printer {
	locale := strings.TrimSpace(c.flags.locale)
	if locale == "" {
		if cfg := c.config; cfg != nil {
			locale = cfg.UI.Locale
		}
	}
	if locale == "" {
		locale = os.Getenv("VIDSUB_LOCALE")
	}
	return messages.New(locale)
}

// loggerFor returns the process logger. It falls back to stderr only when
// the log file cannot be opened.
func (c *commandContext) loggerFor(cmd *cobra.Command) *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config, c.flags.verbose)
		if err != nil {
			logger, _ = logging.New(logging.Options{Console: cmd.ErrOrStderr(), ConsoleLevel: "warn"})
			logger.Warn("log file unavailable", logging.Error(err))
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) backendClient(cfg *config.Config, logger *slog.Logger) *backend.Client {
	return backend.NewFromConfig(cfg, logger)
}

func (c *commandContext) terminal(w any) bool {
	return shouldColorize(w)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
