package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(analysisStarted)
	IncAnalysisStarted()
	assert.Equal(t, before+1, testutil.ToFloat64(analysisStarted))

	IncCategoryOutcome("skills", "error")
	assert.Equal(t, float64(1), testutil.ToFloat64(categoryOutcomes.WithLabelValues("skills", "error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	IncStageFailure("research", "transient")
	ObserveAnalysisDurationMs(-5)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "optimizer_stage_failures_total"))
	assert.True(t, strings.Contains(body, "analysis_duration_ms_bucket"))
}
