package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsBuilder struct {
	summaryVec *prometheus.SummaryVec
	counterVec *prometheus.CounterVec
}

// NewMetricsBuilder registers the HTTP collectors on reg.
func NewMetricsBuilder(reg prometheus.Registerer) *MetricsBuilder {
	factory := promauto.With(reg)
	summaryVec := factory.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.005,
				0.99: 0.001,
			},
		},
		[]string{"method", "path", "status_code"},
	)

	counterVec := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	return &MetricsBuilder{
		summaryVec: summaryVec,
		counterVec: counterVec,
	}
}

func (a *MetricsBuilder) Build() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		duration := time.Since(start).Seconds()

		method := ctx.Request.Method
		// route template keeps label cardinality bounded
		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		statusCode := strconv.Itoa(ctx.Writer.Status())

		a.summaryVec.WithLabelValues(method, path, statusCode).Observe(duration)
		a.counterVec.WithLabelValues(method, path, statusCode).Inc()
	}
}
