package interaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_optimistic_mutations_total",
			Help: "Optimistic mutations applied locally",
		},
		[]string{"kind"},
	)

	mutationsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_optimistic_settled_total",
			Help: "Optimistic mutations settled by the server",
		},
		[]string{"kind", "outcome"},
	)

	joinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_community_joins_total",
			Help: "Community join attempts by outcome",
		},
		[]string{"outcome"},
	)
)

const (
	outcomeConfirmed  = "confirmed"
	outcomeRolledBack = "rolled_back"
	outcomeFailed     = "failed"
	outcomeSkipped    = "skipped"
)
