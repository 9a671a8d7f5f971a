package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		funnelStartsTotal,
		funnelCompletionsTotal,
		funnelScores,
	)
}

var (
	funnelStartsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "funnel_starts_total",
			Help: "Quiz funnel sessions started.",
		},
	)

	funnelCompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_completions_total",
			Help: "Funnels reaching the approval screen, by risk tier.",
		},
		[]string{"tier"},
	)

	funnelScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "funnel_score",
			Help:    "Distribution of eligibility scores at completion.",
			Buckets: []float64{4, 8, 12, 16, 20, 24},
		},
	)
)

func IncFunnelStart() { funnelStartsTotal.Inc() }

func ObserveFunnelCompletion(tier string, score int) {
	funnelCompletionsTotal.WithLabelValues(norm(tier)).Inc()
	funnelScores.Observe(float64(score))
}
