package reminder

import (
	"context"
	"time"

	domain "github.com/oshokin/medication-alarm/internal/domain/alarm"
	"github.com/oshokin/medication-alarm/internal/logger"
	"github.com/oshokin/medication-alarm/internal/observability/metrics"
)

const (
	// DefaultTolerance is how far an alarm time may be from the sweep time and still fire.
	DefaultTolerance = 5 * time.Minute
	// DefaultDispatchConcurrency caps parallel notification calls in one sweep.
	DefaultDispatchConcurrency = 8
	// DefaultDispatchTimeout bounds a single notification call.
	DefaultDispatchTimeout = 10 * time.Second
)

// FailureReporter is called once for every alarm whose dispatch failed in a sweep.
type FailureReporter func(ctx context.Context, alarm *domain.Alarm, err error)

// Option configures the engine.
type Option func(*Engine)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the time zone in which times of day and calendar days are evaluated.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithTolerance sets the due window around the alarm time.
func WithTolerance(tolerance time.Duration) Option {
	return func(e *Engine) {
		if tolerance >= 0 {
			e.tolerance = tolerance
		}
	}
}

// WithDispatchConcurrency caps the number of notification calls in flight.
func WithDispatchConcurrency(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.concurrency = limit
		}
	}
}

// WithDispatchTimeout bounds each notification call; zero disables the bound.
func WithDispatchTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		if timeout >= 0 {
			e.dispatchTimeout = timeout
		}
	}
}

// WithFailureReporter installs a hook that observes individual dispatch failures.
// Failures are always logged; the hook is called in addition.
func WithFailureReporter(report FailureReporter) Option {
	return func(e *Engine) {
		e.reportFailure = report
	}
}

// WithMetrics records sweep and dispatch metrics.
func WithMetrics(m *metrics.SweepMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// logFailure is the built-in failure sink.
func logFailure(ctx context.Context, alarm *domain.Alarm, err error) {
	logger.ErrorKV(
		ctx,
		"Reminder dispatch failed",
		"alarm_id", alarm.ID,
		"patient_id", alarm.PatientID,
		"account_id", alarm.PatientAccountID,
		"error", err,
	)
}
