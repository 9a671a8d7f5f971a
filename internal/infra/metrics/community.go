package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		votesTotal,
		pollsCreatedTotal,
		commentsTotal,
	)
}

var (
	votesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_votes_total",
			Help: "Vote mutations by effect (cast/retract/switch).",
		},
		[]string{"effect"},
	)

	pollsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "polls_created_total",
			Help: "Polls created.",
		},
	)

	commentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poll_comments_total",
			Help: "Comments posted.",
		},
	)
)

func IncVote(effect string) {
	votesTotal.WithLabelValues(norm(effect)).Inc()
}

func IncPollCreated() { pollsCreatedTotal.Inc() }

func IncComment() { commentsTotal.Inc() }
