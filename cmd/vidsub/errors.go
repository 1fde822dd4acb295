package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidsub/internal/lockfile"
	"vidsub/internal/messages"
	"vidsub/internal/services"
	"vidsub/internal/submission"
)

// reportedError marks an error that has already been rendered to stderr.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// report renders err once in the user's locale and returns it marked as
// reported so main only sets the exit status.
func (c *commandContext) report(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	var already *reportedError
	if errors.As(err, &already) {
		return err
	}
	out := cmd.ErrOrStderr()
	colorize := c.terminal(out)
	for _, line := range formatError(err, c.printer()) {
		fmt.Fprintln(out, styleLine(line.kind, line.text, colorize))
	}
	return &reportedError{err: err}
}

type errorLine struct {
	kind statusKind
	text string
}

// formatError maps err to a localized headline, a detail line, and a retry
// hint for failures that a plain re-run can fix.
func formatError(err error, p *messages.Printer) []errorLine {
	kind := services.Classify(err)
	headline := p.T(kindMessage(kind))

	var validation *submission.ValidationError
	var detail string
	switch {
	case errors.As(err, &validation):
		detail = p.T(validation.Key, validation.Args...)
	case errors.Is(err, lockfile.ErrBusy):
		return []errorLine{{statusWarn, p.T(messages.LockBusy, lockPathFrom(err))}}
	case kind == services.KindCanceled:
		return []errorLine{{statusWarn, headline}}
	default:
		detail = errorDetail(err)
	}

	lines := []errorLine{{statusError, headline}}
	if detail != "" && detail != headline {
		lines[0].text = headline + ": " + detail
	}
	if retryable(kind) {
		lines = append(lines, errorLine{statusInfo, p.T(messages.RetryHint)})
	}
	return lines
}

func kindMessage(kind services.FailureKind) messages.Key {
	switch kind {
	case services.KindValidation:
		return messages.ErrValidation
	case services.KindTransport:
		return messages.ErrTransport
	case services.KindApplication:
		return messages.ErrApplication
	case services.KindTimeout:
		return messages.ErrTimeout
	case services.KindPollBudget:
		return messages.ErrPollBudget
	case services.KindConfiguration:
		return messages.ErrConfiguration
	case services.KindCanceled:
		return messages.ErrCanceled
	default:
		return messages.ErrUnknown
	}
}

func retryable(kind services.FailureKind) bool {
	switch kind {
	case services.KindTransport, services.KindApplication, services.KindTimeout, services.KindPollBudget, services.KindUnknown:
		return true
	default:
		return false
	}
}

// errorDetail strips the marker prefix so the headline is not repeated.
func errorDetail(err error) string {
	msg := strings.TrimSpace(err.Error())
	for _, marker := range []error{
		services.ErrValidation,
		services.ErrTransport,
		services.ErrApplication,
		services.ErrTimeout,
		services.ErrPollBudget,
		services.ErrConfiguration,
	} {
		if prefix := marker.Error() + ": "; strings.HasPrefix(msg, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(msg, prefix))
		}
	}
	return msg
}

type lockBusyError struct {
	path string
}

func (e *lockBusyError) Error() string {
	return fmt.Sprintf("%s (lock %s)", lockfile.ErrBusy.Error(), e.path)
}

func (e *lockBusyError) Unwrap() error { return lockfile.ErrBusy }

func lockPathFrom(err error) string {
	var busy *lockBusyError
	if errors.As(err, &busy) {
		return busy.path
	}
	return "?"
}
