package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectMetricNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := make(map[string]bool)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names[m.Name] = true
		}
	}
	return names
}

func TestHTTPMetricsWithMeter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("records request metrics", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		meter := provider.Meter("test")

		router := gin.New()
		router.Use(HTTPMetricsWithMeter(meter, true))
		router.GET("/api/v1/leads/:id", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest("GET", "/api/v1/leads/123", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		names := collectMetricNames(t, reader)
		assert.True(t, names["http_server_request_total"])
		assert.True(t, names["http_server_request_duration_seconds"])
		assert.True(t, names["http_server_active_requests"])
	})

	t.Run("disabled middleware records nothing", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		meter := provider.Meter("test")

		router := gin.New()
		router.Use(HTTPMetricsWithMeter(meter, false))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		names := collectMetricNames(t, reader)
		assert.Empty(t, names)
	})

	t.Run("request body size is recorded when present", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		meter := provider.Meter("test")

		router := gin.New()
		router.Use(HTTPMetricsWithMeter(meter, true))
		router.POST("/api/v1/leads", func(c *gin.Context) {
			c.String(http.StatusCreated, "created")
		})

		req := httptest.NewRequest("POST", "/api/v1/leads", nil)
		req.ContentLength = 256
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		names := collectMetricNames(t, reader)
		assert.True(t, names["http_server_request_size_bytes"])
		assert.True(t, names["http_server_response_size_bytes"])
	})
}

func TestGetRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unmatched route falls back to unknown", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/nope", nil)
		assert.Equal(t, "unknown", getRoutePattern(c))
	})
}

func TestHTTPMetricsStatusGroup(t *testing.T) {
	assert.Equal(t, "2xx", HTTPMetricsStatusGroup(200))
	assert.Equal(t, "3xx", HTTPMetricsStatusGroup(302))
	assert.Equal(t, "4xx", HTTPMetricsStatusGroup(404))
	assert.Equal(t, "5xx", HTTPMetricsStatusGroup(503))
	assert.Equal(t, "other", HTTPMetricsStatusGroup(100))
}
