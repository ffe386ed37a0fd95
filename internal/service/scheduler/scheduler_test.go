package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/medication-alarm/internal/service/reminder"
)

// countingSweeper counts sweeps.
type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) ProcessDueAlarms(context.Context) reminder.SweepReport {
	c.calls.Add(1)
	return reminder.SweepReport{Due: 1, Sent: 1}
}

// TestRun_TicksUntilCanceled drives the ticker on the synctest fake clock.
func TestRun_TicksUntilCanceled(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		sweeper := new(countingSweeper)
		done := make(chan struct{})

		go func() {
			Run(ctx, sweeper, time.Minute)
			close(done)
		}()

		time.Sleep(3*time.Minute + time.Second)
		synctest.Wait()
		require.Equal(t, int32(3), sweeper.calls.Load())

		cancel()
		<-done

		time.Sleep(5 * time.Minute)
		require.Equal(t, int32(3), sweeper.calls.Load())
	})
}

func TestRun_DisabledInterval(t *testing.T) {
	t.Parallel()

	sweeper := new(countingSweeper)
	Run(context.Background(), sweeper, 0)
	require.Zero(t, sweeper.calls.Load())
}
