package scheduler

import (
	"context"
	"time"

	"github.com/oshokin/medication-alarm/internal/logger"
	"github.com/oshokin/medication-alarm/internal/service/reminder"
)

// Sweeper runs one due-alarm sweep.
type Sweeper interface {
	ProcessDueAlarms(ctx context.Context) reminder.SweepReport
}

// Run calls sweeper.ProcessDueAlarms every interval until ctx is canceled.
// A non-positive interval disables the in-process trigger and Run returns at once;
// sweeps can then be driven externally, for example by a cron job calling the CLI.
func Run(ctx context.Context, sweeper Sweeper, interval time.Duration) {
	ctx = logger.WithName(ctx, "scheduler")

	if interval <= 0 {
		logger.Info(ctx, "Sweep interval is not set, in-process scheduler disabled")
		return
	}

	logger.InfoKV(ctx, "Scheduling sweeps", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, scheduler exiting")
			return
		case <-ticker.C:
			report := sweeper.ProcessDueAlarms(ctx)
			if report.Due == 0 {
				continue
			}

			logger.InfoKV(
				ctx,
				"Sweep dispatched reminders",
				"due", report.Due,
				"sent", report.Sent,
				"failed", report.Failed,
			)
		}
	}
}
