// Package metrics exposes the service's prometheus collectors on the default
// registry; the API server serves them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsSubmitted counts accepted submissions.
	JobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcribe_jobs_submitted_total",
		Help: "Number of jobs accepted and enqueued.",
	})

	// JobsProcessed counts jobs by terminal status.
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcribe_jobs_processed_total",
		Help: "Number of jobs reaching a terminal status.",
	}, []string{"status"})

	// ProcessingDuration tracks end-to-end per-job processing time.
	ProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transcribe_processing_duration_seconds",
		Help:    "Time spent processing one job, claim to terminal status.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// CallbackAttempts counts webhook delivery attempts by outcome.
	CallbackAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcribe_callback_attempts_total",
		Help: "Number of callback delivery attempts.",
	}, []string{"outcome"})

	// JobsReclaimed counts jobs requeued after an expired claim lease.
	JobsReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcribe_jobs_reclaimed_total",
		Help: "Number of jobs returned to the queue after a worker died mid-processing.",
	})
)
