package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/golden-vcr/flickrauth/internal/authflow"
)

// Metrics provides observability for Flickr authorization attempts.
type Metrics struct {
	// Completed attempts by outcome and reason
	Attempts *prometheus.CounterVec

	// Attempts turned away because another was already in flight
	DuplicateAttempts prometheus.Counter

	// Time from start to terminal phase, for attempts that were allowed to run
	AttemptDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with all metrics registered against reg. A nil reg
// registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flickrauth_attempts_total",
			Help: "Total Flickr authorization attempts by result and reason",
		}, []string{"result", "reason"}), // result: "success", "failure"

		DuplicateAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "flickrauth_duplicate_attempts_total",
			Help: "Total Flickr authorization attempts rejected because one was already in progress",
		}),

		AttemptDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "flickrauth_attempt_duration_seconds",
			Help: "Duration of Flickr authorization attempts, including time spent waiting on the user",
			// Validation is quick; a full handshake waits on a human
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"success"}),
	}
}

// Report records the outcome of an attempt; it satisfies authflow.Reporter.
func (m *Metrics) Report(ctx context.Context, result authflow.Result) {
	if m == nil {
		return
	}
	if result.Reason == authflow.ReasonDuplicate {
		m.DuplicateAttempts.Inc()
		return
	}
	m.Attempts.WithLabelValues(resultLabel(result.Success), string(result.Reason)).Inc()
	m.ObserveAttemptDuration(result.Success, result.Duration)
}

// ObserveAttemptDuration records how long an attempt took to reach its terminal phase.
func (m *Metrics) ObserveAttemptDuration(success bool, d time.Duration) {
	if m != nil {
		m.AttemptDuration.WithLabelValues(strconv.FormatBool(success)).Observe(d.Seconds())
	}
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
