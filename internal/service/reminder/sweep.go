package reminder

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/oshokin/medication-alarm/internal/domain/alarm"
	"github.com/oshokin/medication-alarm/internal/logger"
	"github.com/oshokin/medication-alarm/internal/notify"
	"github.com/oshokin/medication-alarm/internal/observability/metrics"
	"github.com/oshokin/medication-alarm/internal/repository/alarmstore"
)

// SweepReport summarizes one sweep.
type SweepReport struct {
	// StartedAt is the wall-clock time captured at sweep start.
	StartedAt time.Time
	// Candidates counts active alarms not yet notified today.
	Candidates int
	// Due counts candidates within the tolerance window.
	Due int
	// Sent counts successful dispatches.
	Sent int
	// Failed counts dispatches that returned an error.
	Failed int
}

// ProcessDueAlarms runs one sweep. Every due alarm is dispatched in its own
// goroutine, at most the configured number at a time. A failed or slow dispatch
// never prevents other alarms from being processed, and no per-alarm error is
// returned to the caller: failures go to the log and the failure reporter.
//
// Sweeps from the scheduler and on-demand triggers run one at a time; a sweep
// that waited sees the stamps of the one before it.
func (e *Engine) ProcessDueAlarms(ctx context.Context) SweepReport {
	e.sweepMu.Lock()
	defer e.sweepMu.Unlock()

	ctx = logger.WithName(ctx, "sweep")

	var (
		started = time.Now()
		now     = e.now().In(e.location)
		report  = SweepReport{StartedAt: now}
		due     = e.selectDue(now, &report)
	)

	var sent, failed atomic.Int64

	var group errgroup.Group
	group.SetLimit(e.concurrency)

	for _, record := range due {
		group.Go(func() error {
			if err := e.dispatch(ctx, record, now); err != nil {
				failed.Add(1)
				e.metrics.ObserveDispatch(metrics.ResultFailed)
				logFailure(ctx, record, err)

				if e.reportFailure != nil {
					e.reportFailure(ctx, record, err)
				}

				return nil
			}

			sent.Add(1)
			e.metrics.ObserveDispatch(metrics.ResultSent)

			return nil
		})
	}

	_ = group.Wait() //nolint:errcheck // Dispatch goroutines never return errors.

	report.Sent = int(sent.Load())
	report.Failed = int(failed.Load())

	e.metrics.ObserveSweep(time.Since(started), e.store.Len())

	logger.DebugKV(
		ctx,
		"Sweep finished",
		"candidates", report.Candidates,
		"due", report.Due,
		"sent", report.Sent,
		"failed", report.Failed,
	)

	return report
}

// selectDue returns active alarms that were not notified today and whose time of
// day is within the tolerance of now.
//
// The distance does not wrap around midnight, so an alarm at 23:58 is not due at
// 00:02. Kept as is until the intended semantics are confirmed.
func (e *Engine) selectDue(now time.Time, report *SweepReport) []*domain.Alarm {
	var (
		nowTimeOfDay = domain.TimeOfDayOf(now)
		due          []*domain.Alarm
	)

	for _, record := range e.store.Values() {
		if !record.IsActive || !record.PendingOn(now) {
			continue
		}

		report.Candidates++

		if record.AlarmTime.Distance(nowTimeOfDay) <= e.tolerance {
			due = append(due, record)
		}
	}

	report.Due = len(due)

	return due
}

// dispatch sends one reminder and stamps LastNotificationSent on success.
func (e *Engine) dispatch(ctx context.Context, record *domain.Alarm, now time.Time) error {
	callCtx, cancel := e.dispatchContext(ctx)
	defer cancel()

	n := notify.New(record.PatientAccountID, domain.CategoryMedicationReminder, record.ReminderMessage(), now)

	if err := e.notifier.Notify(callCtx, n); err != nil {
		return err
	}

	_, err := e.store.Update(record.ID, func(stored *domain.Alarm) error {
		stored.LastNotificationSent = &now
		return nil
	})

	switch {
	case err == nil:
		logger.InfoKV(
			ctx,
			"Reminder dispatched",
			"alarm_id", record.ID,
			"account_id", record.PatientAccountID,
			"notification_id", n.ID.String(),
		)
	case errors.Is(err, alarmstore.ErrNotFound):
		// Deleted while the notification was in flight.
		logger.DebugKV(ctx, "Alarm vanished before stamping", "alarm_id", record.ID)
	default:
		logger.WarnKV(ctx, "Failed to stamp alarm", "alarm_id", record.ID, "error", err)
	}

	return nil
}

// dispatchContext bounds a single notification call when a timeout is configured.
func (e *Engine) dispatchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.dispatchTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, e.dispatchTimeout)
}
