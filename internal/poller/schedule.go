package poller

import (
	"time"

	"vidsub/internal/config"
)

// Schedule is the three-tier polling cadence.
type Schedule struct {
	Initial   time.Duration
	Mid       time.Duration
	Slow      time.Duration
	MidAfter  int
	SlowAfter int
}

// Interval returns the wait before the next fetch once ticks fetches have run.
func (s Schedule) Interval(ticks int) time.Duration {
	switch {
	case s.SlowAfter > 0 && ticks >= s.SlowAfter:
		return s.Slow
	case s.MidAfter > 0 && ticks >= s.MidAfter:
		return s.Mid
	default:
		return s.Initial
	}
}

// Options bounds a polling run.
type Options struct {
	Schedule             Schedule
	MaxTicks             int
	MaxConsecutiveErrors int
	// StallTicks is how many unchanged-progress ticks must be exceeded
	// before an update is flagged as stalled.
	StallTicks int
	// StallCeiling is the progress percentage at or above which stalls are
	// not flagged.
	StallCeiling float64
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	cfg := config.Default()
	return OptionsFromConfig(cfg.Polling)
}

// OptionsFromConfig converts the polling config section.
func OptionsFromConfig(p config.Polling) Options {
	return Options{
		Schedule: Schedule{
			Initial:   time.Duration(p.InitialIntervalMS) * time.Millisecond,
			Mid:       time.Duration(p.MidIntervalMS) * time.Millisecond,
			Slow:      time.Duration(p.SlowIntervalMS) * time.Millisecond,
			MidAfter:  p.MidAfterTicks,
			SlowAfter: p.SlowAfterTicks,
		},
		MaxTicks:             p.MaxTicks,
		MaxConsecutiveErrors: p.MaxConsecutiveErrors,
		StallTicks:           p.StallTicks,
		StallCeiling:         float64(p.StallProgressCeiling),
	}
}

func (o Options) withDefaults() Options {
	def := OptionsFromConfig(config.Default().Polling)
	if o.Schedule.Initial <= 0 {
		o.Schedule.Initial = def.Schedule.Initial
	}
	if o.Schedule.Mid <= 0 {
		o.Schedule.Mid = o.Schedule.Initial
	}
	if o.Schedule.Slow <= 0 {
		o.Schedule.Slow = o.Schedule.Mid
	}
	if o.MaxTicks <= 0 {
		o.MaxTicks = def.MaxTicks
	}
	if o.MaxConsecutiveErrors <= 0 {
		o.MaxConsecutiveErrors = def.MaxConsecutiveErrors
	}
	if o.StallTicks <= 0 {
		o.StallTicks = def.StallTicks
	}
	if o.StallCeiling <= 0 {
		o.StallCeiling = def.StallCeiling
	}
	return o
}
