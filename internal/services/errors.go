package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrTransport     = errors.New("transport error")
	ErrApplication   = errors.New("application error")
	ErrTimeout       = errors.New("timeout")
	ErrPollBudget    = errors.New("poll error budget exhausted")
	ErrConfiguration = errors.New("configuration error")
)

// FailureKind names the user-facing category of an error.
type FailureKind string

const (
	KindValidation    FailureKind = "validation"
	KindTransport     FailureKind = "transport"
	KindApplication   FailureKind = "application"
	KindTimeout       FailureKind = "timeout"
	KindPollBudget    FailureKind = "poll_budget"
	KindConfiguration FailureKind = "configuration"
	KindCanceled      FailureKind = "canceled"
	KindUnknown       FailureKind = "unknown"
)

// Wrap builds an error message that includes component context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to the category the CLI renders a message for.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrPollBudget):
		return KindPollBudget
	case errors.Is(err, ErrApplication):
		return KindApplication
	case errors.Is(err, ErrTransport):
		return KindTransport
	default:
		return KindUnknown
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
