package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analysisStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analysis_started_total",
		Help: "Total analyses started",
	})
	analysisCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analysis_completed_total",
		Help: "Total analyses completed",
	})
	analysisFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analysis_failed_total",
		Help: "Total analyses failed",
	})
	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_duration_ms",
		Help:    "Analysis duration in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000},
	})
	categoryOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_category_evaluations_total",
		Help: "Per-category evaluation outcomes",
	}, []string{"category", "outcome"})
	generatorRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "generator_retries_total",
		Help: "Generator calls retried after a transient failure",
	}, []string{"operation"})
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimizer_stage_duration_seconds",
		Help:    "Optimizer stage duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	}, []string{"stage"})
	stageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_stage_failures_total",
		Help: "Optimizer stage failures by error kind",
	}, []string{"stage", "kind"})
)

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStarted.Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompleted.Inc()
}

// IncAnalysisFailed increments the failed counter.
func IncAnalysisFailed() {
	analysisFailed.Inc()
}

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// IncCategoryOutcome counts one category evaluation, outcome is "ok" or "error".
func IncCategoryOutcome(category, outcome string) {
	categoryOutcomes.WithLabelValues(category, outcome).Inc()
}

// IncGeneratorRetry counts a retried generator call.
func IncGeneratorRetry(operation string) {
	generatorRetries.WithLabelValues(operation).Inc()
}

// ObserveStageSeconds records an optimizer stage duration.
func ObserveStageSeconds(stage string, seconds float64) {
	stageDuration.WithLabelValues(stage).Observe(seconds)
}

// IncStageFailure counts a failed optimizer stage.
func IncStageFailure(stage, kind string) {
	stageFailures.WithLabelValues(stage, kind).Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
