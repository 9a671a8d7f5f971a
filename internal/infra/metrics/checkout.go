package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		checkoutsTotal,
		ordersSettledTotal,
		orderRevenueTotal,
	)
}

var (
	checkoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "Checkout handoffs by order kind (funnel-lead/promo-selection/activation-form/reset-form).",
		},
		[]string{"kind"},
	)

	ordersSettledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_settled_total",
			Help: "Orders by settlement outcome (paid/failed).",
		},
		[]string{"status"},
	)

	orderRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_revenue_cents_total",
			Help: "Total value of settled orders in cents, labeled by currency.",
		},
		[]string{"currency"},
	)
)

func IncCheckout(kind string) {
	checkoutsTotal.WithLabelValues(norm(kind)).Inc()
}

func IncOrderSettled(status string) {
	ordersSettledTotal.WithLabelValues(norm(status)).Inc()
}

func AddOrderRevenue(currency string, amountCents int64) {
	orderRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amountCents))
}
