package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(RequestID(), Logging(zap.New(core)))
	router.GET("/test", func(c *gin.Context) {
		c.Set("analysisId", "analysis-1")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-Id", "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request.complete").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	for _, key := range []string{"request_id", "method", "path", "status", "duration_ms", "analysis_id"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "analysis-1", fields["analysis_id"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotContains(t, fields, "workflow_id")
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)

	router := gin.New()
	router.Use(RequestID(), Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":{"code":"internal","message":"Unexpected server error"}}`, resp.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic").Len())
}
