package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	staleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_stale_responses_total",
			Help: "Fetch responses discarded because a newer fetch was issued",
		},
		[]string{"view"},
	)

	viewLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_view_loads_total",
			Help: "View loads by outcome",
		},
		[]string{"view", "outcome"},
	)

	activeWorkspaces = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_workspaces_active",
			Help: "Number of live viewer workspaces",
		},
	)
)
