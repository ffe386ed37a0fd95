package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch results recorded by ObserveDispatch.
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)

// SweepMetrics exposes counters and histograms for the reminder sweep.
type SweepMetrics struct {
	sweepsTotal     prometheus.Counter
	dispatchesTotal *prometheus.CounterVec
	sweepDuration   prometheus.Histogram
	storedAlarms    prometheus.Gauge
}

// NewSweepMetrics registers the collectors on reg, or on the default registerer when reg is nil.
func NewSweepMetrics(reg prometheus.Registerer) *SweepMetrics {
	m := &SweepMetrics{
		sweepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medication_alarm",
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Total due-alarm sweeps",
		}),
		dispatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medication_alarm",
			Subsystem: "sweep",
			Name:      "dispatches_total",
			Help:      "Reminder dispatches by result",
		}, []string{"result"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medication_alarm",
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Wall time of one sweep including dispatch",
			Buckets:   prometheus.DefBuckets,
		}),
		storedAlarms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "medication_alarm",
			Subsystem: "store",
			Name:      "alarms",
			Help:      "Alarms currently held in memory",
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	reg.MustRegister(m.sweepsTotal, m.dispatchesTotal, m.sweepDuration, m.storedAlarms)

	return m
}

// ObserveSweep records one finished sweep.
func (m *SweepMetrics) ObserveSweep(duration time.Duration, storedAlarms int) {
	if m == nil {
		return
	}

	m.sweepsTotal.Inc()
	m.sweepDuration.Observe(duration.Seconds())
	m.storedAlarms.Set(float64(storedAlarms))
}

// ObserveDispatch records the outcome of one reminder dispatch.
func (m *SweepMetrics) ObserveDispatch(result string) {
	if m == nil {
		return
	}

	m.dispatchesTotal.WithLabelValues(result).Inc()
}
