package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		emailsSentTotal,
		bulkRunsTotal,
		bulkBatchLatencyMs,
	)
}

var (
	emailsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Email sends by mode (single/bulk) and outcome (sent/failed).",
		},
		[]string{"mode", "outcome"},
	)

	bulkRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_bulk_runs_total",
			Help: "Completed bulk-send runs.",
		},
	)

	bulkBatchLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "email_bulk_batch_latency_ms",
			Help:    "Wall time to settle one bulk-send batch, milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
	)
)

func IncEmail(mode, outcome string) {
	emailsSentTotal.WithLabelValues(norm(mode), norm(outcome)).Inc()
}

func IncBulkRun() { bulkRunsTotal.Inc() }

func ObserveBulkBatchMs(ms float64) { bulkBatchLatencyMs.Observe(ms) }
