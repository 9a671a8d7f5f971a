package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(priceFeedFetches)
}

var priceFeedFetches = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "price_feed_fetches_total",
		Help: "Spot price polls by outcome (ok/error).",
	},
	[]string{"outcome"},
)

func IncPriceFeedFetch(outcome string) {
	priceFeedFetches.WithLabelValues(norm(outcome)).Inc()
}
