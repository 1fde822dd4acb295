package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vidsub/internal/config"
	"vidsub/internal/lockfile"
	"vidsub/internal/logging"
	"vidsub/internal/messages"
	"vidsub/internal/poller"
	"vidsub/internal/services"
	"vidsub/internal/services/backend"
	"vidsub/internal/session"
	"vidsub/internal/submission"
	"vidsub/internal/subtitles"
)

type jobFlags struct {
	language string
	wait     bool
	noSave   bool
	force    bool
	copy     bool
	jsonOut  bool
	outDir   string

	// skipLock is set by commands that follow an existing job instead of
	// starting one.
	skipLock bool
}

func (f *jobFlags) register(cmd *cobra.Command, submits bool) {
	if submits {
		cmd.Flags().StringVarP(&f.language, "language", "l", "", "Subtitle language code (default from config)")
		cmd.Flags().BoolVar(&f.wait, "wait", false, "Wait for a running submission to finish instead of failing")
	}
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "Do not write an .srt file")
	cmd.Flags().BoolVar(&f.force, "force", false, "Overwrite an existing .srt file")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "Copy the subtitle text to the clipboard")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().StringVarP(&f.outDir, "output", "o", "", "Directory for the .srt file (default from config)")
}

// jobRun carries what a start func needs to create or resume a job.
type jobRun struct {
	cfg     *config.Config
	client  *backend.Client
	logger  *slog.Logger
	printer *messages.Printer
	view    *progressView
}

func (r *jobRun) service() *submission.Service {
	return submission.NewService(r.client,
		submission.WithMaxBytes(r.cfg.MaxUploadBytes()),
		submission.WithLogger(r.logger),
	)
}

func (r *jobRun) language(flags *jobFlags) string {
	if lang := strings.TrimSpace(flags.language); lang != "" {
		return lang
	}
	return r.cfg.Submission.DefaultLanguage
}

type startFunc func(ctx context.Context, run *jobRun) (submission.Submission, error)

// runJob drives one job end to end: take the submission lock, start the
// job, poll it unless the service answered directly, then present, save,
// and copy the result.
func (c *commandContext) runJob(cmd *cobra.Command, flags *jobFlags, start startFunc) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return c.report(cmd, err)
	}
	logger := c.loggerFor(cmd)
	printer := c.printer()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !flags.skipLock {
		lock := lockfile.New(cfg.LockPath())
		if err := lock.Acquire(ctx, flags.wait); err != nil {
			if errors.Is(err, lockfile.ErrBusy) {
				err = &lockBusyError{path: lock.Path()}
			}
			return c.report(cmd, err)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release submission lock", logging.Error(err))
			}
		}()
	}

	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)

	outDir := cfg.Output.Dir
	if dir := strings.TrimSpace(flags.outDir); dir != "" {
		if outDir, err = config.ExpandPath(dir); err != nil {
			return c.report(cmd, services.Wrap(services.ErrConfiguration, "output", "dir", "", err))
		}
	}
	sess := session.New(outDir, session.WithClipboard(c.clipboard), session.WithLogger(logger))
	jobCtx, done := sess.Begin(ctx)
	defer done()

	stderr := cmd.ErrOrStderr()
	run := &jobRun{
		cfg:     cfg,
		client:  c.backendClient(cfg, logger),
		logger:  logger,
		printer: printer,
		view:    newProgressView(stderr, printer, !flags.jsonOut && c.terminal(stderr), sess),
	}

	sub, err := start(jobCtx, run)
	run.view.Finish()
	if err != nil {
		sess.Fail(err)
		return c.report(cmd, err)
	}

	result := sub.Result
	if !sub.Direct() {
		sess.Accepted(sub.TaskID, sub.BaseName)
		run.view.Note(printer.T(messages.JobStarted, sub.TaskID))
		p := poller.New(run.client, poller.OptionsFromConfig(cfg.Polling), run.view, logger)
		res, err := p.Run(jobCtx, sub.TaskID)
		run.view.Finish()
		if err != nil {
			sess.Fail(err)
			return c.report(cmd, err)
		}
		result = res.Result
	}

	doc, err := sess.Complete(sub.BaseName, result)
	if err != nil {
		sess.Fail(err)
		return c.report(cmd, services.Wrap(services.ErrApplication, "", "", "completed without subtitle content", err))
	}
	logging.WithContext(ctx, logger).Info("subtitles ready",
		logging.String(logging.FieldTaskID, sub.TaskID),
		logging.Int("blocks", len(doc.Blocks)),
	)
	return c.presentResult(cmd, flags, cfg, sess, sub)
}

type resultPayload struct {
	TaskID    string             `json:"task_id,omitempty"`
	Source    string             `json:"source,omitempty"`
	Input     string             `json:"input,omitempty"`
	Language  string             `json:"language,omitempty"`
	Name      string             `json:"name"`
	Warning   string             `json:"warning,omitempty"`
	SavedPath string             `json:"saved_path,omitempty"`
	Copied    bool               `json:"copied,omitempty"`
	Document  subtitles.Document `json:"document"`
}

func (c *commandContext) presentResult(cmd *cobra.Command, flags *jobFlags, cfg *config.Config, sess *session.Session, sub submission.Submission) error {
	printer := c.printer()
	snap := sess.Current()
	doc, ok := sess.Document()
	if !ok {
		return c.report(cmd, session.ErrNoResult)
	}

	var saved string
	if !flags.noSave && (cfg.Output.AutoSave || strings.TrimSpace(flags.outDir) != "") {
		path, err := sess.Save(flags.force)
		if err != nil {
			return c.report(cmd, err)
		}
		saved = path
	}
	if flags.copy {
		if err := sess.Copy(0); err != nil {
			return c.report(cmd, err)
		}
	}

	if flags.jsonOut {
		return writeJSON(cmd, resultPayload{
			TaskID:    sub.TaskID,
			Source:    string(sub.Source),
			Input:     sub.Input,
			Language:  sub.Language,
			Name:      snap.BaseName,
			Warning:   snap.Warning,
			SavedPath: saved,
			Copied:    flags.copy,
			Document:  doc,
		})
	}

	out := cmd.OutOrStdout()
	colorize := c.terminal(out)
	fmt.Fprintln(out, styleLine(statusOK, printer.T(messages.Completed), colorize))
	if snap.Warning != "" {
		fmt.Fprintln(out, styleLine(statusWarn, printer.T(messages.Warning, snap.Warning), colorize))
	}
	writeDocument(out, doc, printer, colorize)
	if saved != "" {
		fmt.Fprintln(out, printer.T(messages.Saved, saved))
	}
	if flags.copy {
		fmt.Fprintln(out, printer.T(messages.Copied))
	}
	return nil
}

// writeDocument prints the block table, or the raw text when no cues were
// found.
func writeDocument(out io.Writer, doc subtitles.Document, printer *messages.Printer, colorize bool) {
	if doc.SRT && len(doc.Blocks) > 0 {
		fmt.Fprintln(out, renderBlocks(doc))
		return
	}
	fmt.Fprintln(out, styleLine(statusWarn, printer.T(messages.RawFallback), colorize))
	for _, line := range doc.Lines() {
		fmt.Fprintln(out, line)
	}
}
