package resources

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics records request count, latency and response size per route through the
// global otel meter provider.
type HTTPMetrics struct {
	reqs    metric.Int64Counter
	latency metric.Float64Histogram
	size    metric.Int64Histogram
}

func NewHTTPMetrics(name string) *HTTPMetrics {
	meter := otel.Meter(name)

	reqs, _ := meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("HTTP requests"),
	)
	latency, _ := meter.Float64Histogram(
		"http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"),
	)
	size, _ := meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("HTTP response body size"),
		metric.WithUnit("By"),
	)

	return &HTTPMetrics{reqs: reqs, latency: latency, size: size}
}

func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := c.Writer.Status()
		opt := metric.WithAttributes(
			attribute.String("http.route", route),
			attribute.String("http.request.method", c.Request.Method),
			attribute.Int("http.response.status_code", status),
			attribute.String("http.status_class", strconv.Itoa(status/100)+"xx"),
		)

		ctx := c.Request.Context()
		m.reqs.Add(ctx, 1, opt)
		m.latency.Record(ctx, float64(time.Since(start).Microseconds())/1000, opt)
		m.size.Record(ctx, int64(max(c.Writer.Size(), 0)), opt)
	}
}
