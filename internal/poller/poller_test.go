package poller

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"vidsub/internal/services"
	"vidsub/internal/services/backend"
)

type scriptedFetcher struct {
	mu    sync.Mutex
	calls int
	next  func(call int) (backend.JobStatus, error)
}

func (f *scriptedFetcher) Progress(_ context.Context, _ string) (backend.JobStatus, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.next(call)
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingObserver struct {
	updates []Update
	errors  []int
}

func (o *recordingObserver) Progress(u Update) { o.updates = append(o.updates, u) }

func (o *recordingObserver) PollError(_, consecutive int, _ error) {
	o.errors = append(o.errors, consecutive)
}

func fastOptions() Options {
	return Options{
		Schedule:             Schedule{Initial: time.Millisecond, Mid: time.Millisecond, Slow: time.Millisecond, MidAfter: 5, SlowAfter: 10},
		MaxTicks:             300,
		MaxConsecutiveErrors: 10,
		StallTicks:           15,
		StallCeiling:         70,
	}
}

func processing(progress float64) (backend.JobStatus, error) {
	return backend.JobStatus{State: backend.StateProcessing, Progress: progress}, nil
}

func TestRunCompletes(t *testing.T) {
	fetcher := &scriptedFetcher{next: func(call int) (backend.JobStatus, error) {
		if call < 3 {
			return processing(float64(call * 30))
		}
		return backend.JobStatus{State: backend.StateCompleted, Progress: 100, Result: &backend.SubtitleResult{Text: "1\n00:00:01,000 --> 00:00:02,000\nHi"}}, nil
	}}
	observer := &recordingObserver{}
	res, err := New(fetcher, fastOptions(), observer, nil).Run(context.Background(), "job")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Outcome != OutcomeCompleted || res.Ticks != 3 || res.Result == nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(observer.updates) != 3 || observer.updates[2].Progress != 100 {
		t.Fatalf("unexpected updates %+v", observer.updates)
	}
}

func TestRunCompletedWithoutPayloadFails(t *testing.T) {
	fetcher := &scriptedFetcher{next: func(int) (backend.JobStatus, error) {
		return backend.JobStatus{State: backend.StateCompleted, Progress: 100}, nil
	}}
	res, err := New(fetcher, fastOptions(), nil, nil).Run(context.Background(), "job")
	if !errors.Is(err, services.ErrApplication) || res.Outcome != OutcomeFailed {
		t.Fatalf("expected application failure, got %v (%+v)", err, res)
	}
}

func TestRunFailedVerbatim(t *testing.T) {
	fetcher := &scriptedFetcher{next: func(int) (backend.JobStatus, error) {
		return backend.JobStatus{State: backend.StateFailed, Error: "ffmpeg exploded"}, nil
	}}
	res, err := New(fetcher, fastOptions(), nil, nil).Run(context.Background(), "job")
	if !errors.Is(err, services.ErrApplication) || res.Outcome != OutcomeFailed {
		t.Fatalf("expected application failure, got %v", err)
	}
	if got := err.Error(); got != "application error: ffmpeg exploded" {
		t.Fatalf("expected verbatim message, got %q", got)
	}
}

func TestRunTimesOutAfterExactlyMaxTicks(t *testing.T) {
	fetcher := &scriptedFetcher{next: func(int) (backend.JobStatus, error) { return processing(10) }}
	res, err := New(fetcher, fastOptions(), nil, nil).Run(context.Background(), "job")
	if !errors.Is(err, services.ErrTimeout) || res.Outcome != OutcomeTimedOut {
		t.Fatalf("expected timeout, got %v (%+v)", err, res)
	}
	if fetcher.Calls() != 300 || res.Ticks != 300 {
		t.Fatalf("expected exactly 300 requests, got %d", fetcher.Calls())
	}
}

func TestRunAbortsAfterConsecutiveErrors(t *testing.T) {
	fetcher := &scriptedFetcher{next: func(int) (backend.JobStatus, error) {
		return backend.JobStatus{}, services.Wrap(services.ErrTransport, "backend", "progress", "down", nil)
	}}
	observer := &recordingObserver{}
	res, err := New(fetcher, fastOptions(), observer, nil).Run(context.Background(), "job")
	if !errors.Is(err, services.ErrPollBudget) || res.Outcome != OutcomeErrorAborted {
		t.Fatalf("expected poll budget error, got %v", err)
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected last transport error to be wrapped, got %v", err)
	}
	if fetcher.Calls() != 10 {
		t.Fatalf("expected exactly 10 requests, got %d", fetcher.Calls())
	}
	if len(observer.errors) != 10 || observer.errors[9] != 10 {
		t.Fatalf("unexpected error reports %v", observer.errors)
	}
}

func TestErrorBudgetResetsOnSuccess(t *testing.T) {
	fetcher := &scriptedFetcher{next: func(call int) (backend.JobStatus, error) {
		switch {
		case call == 30:
			return backend.JobStatus{State: backend.StateCompleted, Result: &backend.SubtitleResult{Text: "done"}}, nil
		case call%10 == 0:
			return processing(50)
		default:
			return backend.JobStatus{}, errors.New("flaky")
		}
	}}
	res, err := New(fetcher, fastOptions(), nil, nil).Run(context.Background(), "job")
	if err != nil {
		t.Fatalf("expected success after intermittent errors, got %v", err)
	}
	if res.Ticks != 30 {
		t.Fatalf("expected errors to count as ticks, got %d", res.Ticks)
	}
}

func TestErrorsCountTowardTickCap(t *testing.T) {
	opts := fastOptions()
	opts.MaxTicks = 12
	fetcher := &scriptedFetcher{next: func(call int) (backend.JobStatus, error) {
		if call%2 == 0 {
			return backend.JobStatus{}, errors.New("flaky")
		}
		return processing(5)
	}}
	_, err := New(fetcher, opts, nil, nil).Run(context.Background(), "job")
	if !errors.Is(err, services.ErrTimeout) || fetcher.Calls() != 12 {
		t.Fatalf("expected timeout after 12 requests, got %v after %d", err, fetcher.Calls())
	}
}

func TestStallHint(t *testing.T) {
	fetcher := &scriptedFetcher{next: func(call int) (backend.JobStatus, error) {
		switch {
		case call <= 20:
			return processing(40)
		case call == 21:
			return processing(45)
		default:
			return backend.JobStatus{State: backend.StateCompleted, Result: &backend.SubtitleResult{Text: "x"}}, nil
		}
	}}
	observer := &recordingObserver{}
	if _, err := New(fetcher, fastOptions(), observer, nil).Run(context.Background(), "job"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// Tick 1 sets the baseline; ticks 2..17 bring the counter to 16.
	for i, u := range observer.updates[:21] {
		want := u.Tick >= 17 && u.Tick <= 20
		if u.Stalled != want {
			t.Fatalf("update %d (tick %d): stalled=%v, want %v", i, u.Tick, u.Stalled, want)
		}
	}
}

func TestNoStallHintAboveCeiling(t *testing.T) {
	opts := fastOptions()
	opts.MaxTicks = 25
	fetcher := &scriptedFetcher{next: func(int) (backend.JobStatus, error) { return processing(80) }}
	observer := &recordingObserver{}
	_, _ = New(fetcher, opts, observer, nil).Run(context.Background(), "job")
	for _, u := range observer.updates {
		if u.Stalled {
			t.Fatalf("tick %d flagged stalled above ceiling", u.Tick)
		}
	}
}

func TestCadenceTiers(t *testing.T) {
	s := DefaultOptions().Schedule
	cases := map[int]time.Duration{
		0:  2000 * time.Millisecond,
		4:  2000 * time.Millisecond,
		5:  3000 * time.Millisecond,
		9:  3000 * time.Millisecond,
		10: 5000 * time.Millisecond,
		99: 5000 * time.Millisecond,
	}
	for ticks, want := range cases {
		if got := s.Interval(ticks); got != want {
			t.Errorf("Interval(%d) = %v, want %v", ticks, got, want)
		}
	}
}

func TestTimerRecreatedOnTierChange(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxTicks = 12
	fetcher := &scriptedFetcher{next: func(int) (backend.JobStatus, error) { return processing(1) }}
	p := New(fetcher, opts, nil, nil)
	var created, resets []time.Duration
	p.newTimer = func(d time.Duration) *time.Timer {
		created = append(created, d)
		return time.NewTimer(time.Millisecond)
	}
	p.resetTimer = func(timer *time.Timer, d time.Duration) {
		resets = append(resets, d)
		timer.Reset(time.Millisecond)
	}
	_, _ = p.Run(context.Background(), "job")

	wantCreated := []time.Duration{2 * time.Second, 3 * time.Second, 5 * time.Second}
	if !slices.Equal(created, wantCreated) {
		t.Fatalf("expected timers %v, got %v", wantCreated, created)
	}
	wantResets := []time.Duration{
		2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second,
		3 * time.Second, 3 * time.Second, 3 * time.Second, 3 * time.Second,
		5 * time.Second,
	}
	if !slices.Equal(resets, wantResets) {
		t.Fatalf("expected resets %v, got %v", wantResets, resets)
	}
}


func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &scriptedFetcher{next: func(call int) (backend.JobStatus, error) {
		if call == 3 {
			cancel()
		}
		return processing(10)
	}}
	res, err := New(fetcher, fastOptions(), nil, nil).Run(ctx, "job")
	if !errors.Is(err, context.Canceled) || res.Outcome != OutcomeCanceled {
		t.Fatalf("expected cancellation, got %v (%+v)", err, res)
	}
	if fetcher.Calls() != 3 {
		t.Fatalf("expected no requests after cancel, got %d", fetcher.Calls())
	}
}
