package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vidsub/internal/config"
)

// Options describes logger construction parameters.
//
// The file sink receives records at Level in Format. The console sink, when
// Console is set, always uses the human format and only shows records at
// ConsoleLevel or above so progress output on the terminal stays readable.
type Options struct {
	Level        string
	Format       string
	FilePath     string
	Console      io.Writer
	ConsoleLevel string
	Development  bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	var handlers []slog.Handler

	if path := strings.TrimSpace(opts.FilePath); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return nil, err
		}
		level := levelVar(opts.Level)
		addSource := opts.Development || level.Level() <= slog.LevelDebug
		if format == "json" {
			handlers = append(handlers, newJSONHandler(file, level, addSource))
		} else {
			handlers = append(handlers, newPrettyHandler(file, level, addSource, time.RFC3339))
		}
	}

	if opts.Console != nil {
		consoleLevel := opts.ConsoleLevel
		if strings.TrimSpace(consoleLevel) == "" {
			consoleLevel = "warn"
		}
		level := levelVar(consoleLevel)
		handlers = append(handlers, newPrettyHandler(opts.Console, level, opts.Development, time.TimeOnly))
	}

	return slog.New(newTeeHandler(handlers...)), nil
}

// NewFromConfig creates a logger writing to the configured log file, echoing
// warnings (or everything, when verbose) to stderr.
func NewFromConfig(cfg *config.Config, verbose bool) (*slog.Logger, error) {
	consoleLevel := "warn"
	if verbose {
		consoleLevel = "debug"
	}
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", Console: os.Stderr, ConsoleLevel: consoleLevel})
	}
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return New(Options{
		Level:        level,
		Format:       cfg.Logging.Format,
		FilePath:     cfg.LogPath(),
		Console:      os.Stderr,
		ConsoleLevel: consoleLevel,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func levelVar(level string) *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(parseLevel(level))
	return v
}

func openLogFile(path string) (io.Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}

// teeHandler forwards each record to every handler whose level admits it.
type teeHandler struct {
	handlers []slog.Handler
}

func newTeeHandler(handlers ...slog.Handler) slog.Handler {
	switch len(handlers) {
	case 0:
		return NoopHandler{}
	case 1:
		return handlers[0]
	}
	return &teeHandler{handlers: handlers}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}
