package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "feed_engine"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6), // 100B to 10MB
		},
		[]string{"method", "route"},
	)

	activeRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "http_active_requests",
			Help:      "Number of currently active HTTP requests",
		},
	)

	viewActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "view_actions_total",
			Help:      "Post actions by view, action and answer",
		},
		[]string{"view", "action", "status"},
	)

	upstreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_failures_total",
			Help:      "Requests answered with an upstream failure",
		},
		[]string{"route", "status"},
	)
)

// viewActionPrefix is the route template of actions on a post shown in a view
const viewActionPrefix = "/api/v1/views/:view/posts/:id/"

// Metrics returns a gin middleware that collects Prometheus metrics. Requests
// are labelled by route template; unmatched paths share one label. views
// lists the view names counted by name in view actions; any other name is
// counted as "unknown".
func Metrics(views ...string) gin.HandlerFunc {
	known := make(map[string]bool, len(views))
	for _, v := range views {
		known[v] = true
	}
	return func(c *gin.Context) {
		if quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		activeRequests.Inc()

		c.Next()

		activeRequests.Dec()
		duration := time.Since(start).Seconds()
		code := c.Writer.Status()
		status := strconv.Itoa(code)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(duration)
		httpResponseSize.WithLabelValues(c.Request.Method, route).Observe(float64(c.Writer.Size()))

		if view, action, ok := viewAction(c, route, known); ok {
			viewActions.WithLabelValues(view, action, status).Inc()
		}
		if code == http.StatusBadGateway || code == http.StatusServiceUnavailable {
			upstreamFailures.WithLabelValues(route, status).Inc()
		}
	}
}

// viewAction extracts the view and action of a view action route
func viewAction(c *gin.Context, route string, known map[string]bool) (view, action string, ok bool) {
	action, ok = strings.CutPrefix(route, viewActionPrefix)
	if !ok {
		return "", "", false
	}
	view = c.Param("view")
	if !known[view] {
		view = "unknown"
	}
	return view, action, true
}
