package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedPath - метка для запросов, не попавших ни в один маршрут
const unmatchedPath = "unmatched"

// =============================================================================
// Gin Middleware
// =============================================================================

// GinPrometheusMiddleware собирает http_requests_total, http_request_duration_seconds
// и http_requests_in_flight. Служебные эндпоинты /metrics и /health не учитываются
func GinPrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isServicePath(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()

		inFlight := HttpRequestsInFlight.WithLabelValues(serviceName)
		inFlight.Inc()
		defer inFlight.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := routeLabel(c)

		HttpRequestsTotal.WithLabelValues(serviceName, c.Request.Method, path, status).Inc()
		HttpRequestDuration.WithLabelValues(serviceName, c.Request.Method, path).Observe(duration)
	}
}

// routeLabel возвращает шаблон маршрута (/packages-api/package/:id), а не фактический путь,
// иначе каждый ID пакета порождает отдельный временной ряд
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedPath
}

func isServicePath(path string) bool {
	return path == "/metrics" || path == "/health" || strings.HasPrefix(path, "/health/")
}
