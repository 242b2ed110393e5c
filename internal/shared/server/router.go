package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"resumeforge/internal/services/health"
	"resumeforge/internal/shared/config"
	"resumeforge/internal/shared/metrics"
	"resumeforge/internal/shared/server/middleware"
	"resumeforge/internal/shared/server/respond"
)

// RouteRegistrar attaches a feature's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Deps are the collaborators the router needs.
type Deps struct {
	Config   config.Config
	Logger   *zap.Logger
	Health   *health.Service
	Features []RouteRegistrar
	// Registerer receives the HTTP collectors; nil uses the default registry.
	Registerer prometheus.Registerer
	// RateLimits applies per-client limits to the pipeline endpoints when set.
	RateLimits map[string]middleware.RateLimitRule
}

const rootMessage = "resumeforge API is running. See /api/v1/health for readiness."

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	reg := deps.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.NewMetricsBuilder(reg).Build(),
	)
	if len(deps.RateLimits) > 0 {
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    deps.RateLimits,
			GroupFor: middleware.PipelineRoutes("/api/v1/analyze", "/api/v1/optimizer/run"),
		}))
	}

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{"status": "ok", "message": rootMessage})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, health.Report{Status: "ok", Checks: map[string]string{}})
			return
		}
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK() {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	for _, f := range deps.Features {
		f.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
