package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func metricsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics("home", "profile"))
	r.POST("/api/v1/views/:view/posts/:id/interaction", func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/home", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	return r
}

func serve(r *gin.Engine, method, path string) {
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, nil))
}

func TestMetrics_ViewActionsByName(t *testing.T) {
	r := metricsRouter()
	home := viewActions.WithLabelValues("home", "interaction", "202")
	unknown := viewActions.WithLabelValues("unknown", "interaction", "202")
	beforeHome, beforeUnknown := testutil.ToFloat64(home), testutil.ToFloat64(unknown)

	serve(r, http.MethodPost, "/api/v1/views/home/posts/1/interaction")
	serve(r, http.MethodPost, "/api/v1/views/home/posts/2/interaction")
	serve(r, http.MethodPost, "/api/v1/views/whatever/posts/2/interaction")

	assert.Equal(t, beforeHome+2, testutil.ToFloat64(home))
	assert.Equal(t, beforeUnknown+1, testutil.ToFloat64(unknown))
}

func TestMetrics_RouteLabelsAndQuietPaths(t *testing.T) {
	r := metricsRouter()
	health := httpRequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")
	unmatched := httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	upstream := upstreamFailures.WithLabelValues("/api/v1/home", "502")
	beforeHealth, beforeUnmatched, beforeUpstream := testutil.ToFloat64(health), testutil.ToFloat64(unmatched), testutil.ToFloat64(upstream)

	serve(r, http.MethodGet, "/health")
	serve(r, http.MethodGet, "/no/such/path/123")
	serve(r, http.MethodGet, "/api/v1/home")

	assert.Equal(t, beforeHealth, testutil.ToFloat64(health), "health checks are not counted")
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
	assert.Equal(t, beforeUpstream+1, testutil.ToFloat64(upstream))
}
