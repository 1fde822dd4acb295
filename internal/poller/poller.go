package poller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vidsub/internal/logging"
	"vidsub/internal/services"
	"vidsub/internal/services/backend"
)

const component = "poller"

// Fetcher returns the current status of a job.
type Fetcher interface {
	Progress(ctx context.Context, taskID string) (backend.JobStatus, error)
}

// Outcome is the terminal state of a polling run.
type Outcome string

const (
	OutcomeCompleted    Outcome = "completed"
	OutcomeFailed       Outcome = "failed"
	OutcomeTimedOut     Outcome = "timed_out"
	OutcomeErrorAborted Outcome = "error_aborted"
	OutcomeCanceled     Outcome = "canceled"
)

// Update is reported after every successful fetch.
type Update struct {
	Tick     int
	State    backend.State
	Progress float64
	Message  string
	// Stalled is set once progress has not moved for longer than the stall
	// threshold while still below the stall ceiling.
	Stalled bool
}

// Observer receives progress as the poller runs. Calls happen on the
// polling goroutine.
type Observer interface {
	Progress(update Update)
	PollError(tick, consecutive int, err error)
}

type nopObserver struct{}

func (nopObserver) Progress(Update) {}

func (nopObserver) PollError(int, int, error) {}

// Result summarizes a finished run.
type Result struct {
	Outcome Outcome
	Ticks   int
	// Last is the most recent successfully fetched status.
	Last   backend.JobStatus
	Result *backend.SubtitleResult
}

// Poller runs the polling state machine for one job at a time.
type Poller struct {
	fetcher    Fetcher
	opts       Options
	observer   Observer
	logger     *slog.Logger
	newTimer   func(time.Duration) *time.Timer
	resetTimer func(*time.Timer, time.Duration)
}

// New constructs a poller. A nil observer discards updates.
func New(fetcher Fetcher, opts Options, observer Observer, logger *slog.Logger) *Poller {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Poller{
		fetcher:    fetcher,
		opts:       opts.withDefaults(),
		observer:   observer,
		logger:     logging.NewComponentLogger(logger, component),
		newTimer:   time.NewTimer,
		resetTimer: func(t *time.Timer, d time.Duration) { t.Reset(d) },
	}
}

// Run polls taskID until a terminal outcome. The error is nil only for
// OutcomeCompleted; otherwise it carries a services marker (ErrApplication,
// ErrTimeout, ErrPollBudget) or the context error.
func (p *Poller) Run(ctx context.Context, taskID string) (Result, error) {
	ctx = services.WithTaskID(ctx, taskID)
	logger := logging.WithContext(ctx, p.logger)
	sampler := logging.NewProgressSampler(10)

	var (
		res          Result
		consecutive  int
		stall        int
		lastProgress = -1.0
		lastErr      error
	)

	interval := p.opts.Schedule.Interval(0)
	timer := p.newTimer(interval)
	defer func() { timer.Stop() }()

	for {
		select {
		case <-ctx.Done():
			res.Outcome = OutcomeCanceled
			logger.Info("polling canceled", logging.Int("ticks", res.Ticks))
			return res, ctx.Err()
		case <-timer.C:
		}

		res.Ticks++
		status, err := p.fetcher.Progress(ctx, taskID)
		if ctx.Err() != nil {
			res.Outcome = OutcomeCanceled
			logger.Info("polling canceled", logging.Int("ticks", res.Ticks))
			return res, ctx.Err()
		}
		if err != nil {
			consecutive++
			lastErr = err
			p.observer.PollError(res.Ticks, consecutive, err)
			logger.Debug("poll failed",
				logging.Int("tick", res.Ticks),
				logging.Int("consecutive", consecutive),
				logging.Error(err),
			)
			if consecutive >= p.opts.MaxConsecutiveErrors {
				res.Outcome = OutcomeErrorAborted
				logger.Warn("polling aborted after repeated failures",
					logging.String(logging.FieldEventType, "poll_budget_exhausted"),
					logging.Int("consecutive", consecutive),
					logging.Error(lastErr),
				)
				return res, services.Wrap(services.ErrPollBudget, component, "poll",
					fmt.Sprintf("%d consecutive failures", consecutive), lastErr)
			}
		} else {
			consecutive = 0
			res.Last = status

			switch status.State {
			case backend.StateCompleted:
				if status.Result == nil || strings.TrimSpace(status.Result.Text) == "" {
					res.Outcome = OutcomeFailed
					logger.Warn("job completed without subtitle content",
						logging.String(logging.FieldEventType, "empty_result"),
					)
					return res, services.Wrap(services.ErrApplication, component, "poll",
						"completed without subtitle content", nil)
				}
				res.Outcome = OutcomeCompleted
				res.Result = status.Result
				p.observer.Progress(Update{Tick: res.Ticks, State: status.State, Progress: 100, Message: status.Message})
				logger.Info("job completed", logging.Int("ticks", res.Ticks))
				return res, nil
			case backend.StateFailed:
				res.Outcome = OutcomeFailed
				msg := status.Error
				if msg == "" {
					msg = status.Message
				}
				if msg == "" {
					msg = "job failed"
				}
				logger.Info("job failed", logging.String("reason", msg))
				return res, services.Wrap(services.ErrApplication, "", "", msg, nil)
			}

			if status.Progress == lastProgress {
				stall++
			} else {
				stall = 0
				lastProgress = status.Progress
			}
			update := Update{
				Tick:     res.Ticks,
				State:    status.State,
				Progress: status.Progress,
				Message:  status.Message,
				Stalled:  stall > p.opts.StallTicks && status.Progress < p.opts.StallCeiling,
			}
			p.observer.Progress(update)
			if sampler.ShouldLog(status.Progress, string(status.State)) {
				logger.Debug("job progress",
					logging.Int("tick", res.Ticks),
					logging.Float64("progress", status.Progress),
					logging.String("message", status.Message),
				)
			}
		}

		if res.Ticks >= p.opts.MaxTicks {
			res.Outcome = OutcomeTimedOut
			logger.Warn("polling timed out",
				logging.String(logging.FieldEventType, "poll_timeout"),
				logging.Int("ticks", res.Ticks),
			)
			return res, services.Wrap(services.ErrTimeout, component, "poll",
				fmt.Sprintf("no terminal state after %d ticks", res.Ticks), nil)
		}

		next := p.opts.Schedule.Interval(res.Ticks)
		if next != interval {
			interval = next
			timer.Stop()
			timer = p.newTimer(interval)
			logger.Debug("polling cadence changed", logging.Duration("interval", interval))
			continue
		}
		p.resetTimer(timer, interval)
	}
}
