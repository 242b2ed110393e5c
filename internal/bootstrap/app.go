package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"resumeforge/internal/analyses"
	"resumeforge/internal/llm"
	"resumeforge/internal/llm/gemini"
	"resumeforge/internal/llm/openai"
	"resumeforge/internal/optimizer"
	"resumeforge/internal/services/health"
	"resumeforge/internal/shared/config"
	"resumeforge/internal/shared/server"
	"resumeforge/internal/shared/server/middleware"
	"resumeforge/internal/shared/storage/db"
	"resumeforge/internal/shared/telemetry"
	"resumeforge/internal/statestore"
	"resumeforge/internal/websearch"
	"resumeforge/resume/render"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Router *gin.Engine
	DB     *sql.DB
	Store  statestore.Store

	// Generator is the plain client; Evaluation wraps it with retries.
	Generator  llm.Generator
	Evaluation llm.Generator
	Search     *websearch.Client
	Renderer   render.PDFRenderer

	AnalysesRepo     analyses.Repo
	AnalysesService  *analyses.Service
	OptimizerService *optimizer.Service
	Health           *health.Service
}

// Options overrides pieces of the dependency graph, mostly for tests.
type Options struct {
	Registerer prometheus.Registerer
	Provider   llm.Provider
	Searcher   websearch.Searcher
	Renderer   render.PDFRenderer
}

// Build prepares shared dependencies and the router.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	logger = telemetry.OrNop(logger)

	sqlDB, err := buildDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	provider := opts.Provider
	if provider == nil {
		provider, err = buildProvider(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	searcher := opts.Searcher
	if searcher == nil {
		searcher, err = buildSearcher(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       sqlDB,
		Store:    store,
		Search:   websearch.NewClient(searcher, websearch.DefaultMaxResults, cfg.SearchTimeout, logger),
		Renderer: opts.Renderer,
	}
	if app.Renderer == nil {
		app.Renderer = render.NewChromedp(cfg.ChromePath, 0)
	}
	app.Generator = llm.NewClient(provider, modelsFor(cfg, provider.Name()), cfg.LLMTimeout, logger)
	app.Evaluation = llm.WithRetry(app.Generator, llm.RetryPolicy{
		BaseDelay:   cfg.LLMRetryBaseDelay,
		MaxAttempts: cfg.LLMRetryMaxAttempt,
	}, logger)

	buildServices(app)

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if sqlDB != nil {
		if err := reg.Register(collectors.NewDBStatsCollector(sqlDB, "analysis_history")); err != nil {
			logger.Warn("bootstrap.metrics.dbstats", zap.Error(err))
		}
	}

	app.Router = server.NewRouter(server.Deps{
		Config:     cfg,
		Logger:     logger,
		Health:     app.Health,
		Registerer: reg,
		RateLimits: rateLimits(cfg),
		Features: []server.RouteRegistrar{
			analyses.NewHandler(app.AnalysesService),
			optimizer.NewHandler(app.OptimizerService),
		},
	})

	logger.Info("bootstrap.ready",
		zap.String("env", cfg.Env),
		zap.String("llm_provider", provider.Name()),
		zap.String("search_provider", searcher.Name()),
		zap.Bool("database", sqlDB != nil),
	)
	return app, nil
}

// Close releases pooled connections.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config, logger *zap.Logger) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("bootstrap.db.disabled", zap.String("reason", "DATABASE_URL empty; analysis history kept in memory"))
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, poolOptions(cfg))
	if err != nil {
		if isDevLike(cfg.Env) {
			logger.Warn("bootstrap.db.fallback", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func poolOptions(cfg config.Config) db.Options {
	return db.DefaultServerOptions().Override(db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
}

func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (statestore.Store, error) {
	addr := cfg.RedisAddr()
	if addr == "" {
		if !isDevLike(cfg.Env) {
			return nil, fmt.Errorf("REDIS_HOST is required outside dev")
		}
		logger.Info("bootstrap.statestore.memory", zap.Duration("ttl", cfg.WorkflowTTL))
		return statestore.NewMemoryStore(cfg.WorkflowTTL), nil
	}

	client := statestore.NewRedisClient(statestore.RedisOptions{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := statestore.NewRedisStore(client, cfg.WorkflowTTL)
	// An unreachable Redis at startup is reported by the health endpoint
	// and as 503s on the workflow routes; it does not stop the server.
	if err := store.Ping(ctx); err != nil {
		logger.Warn("bootstrap.statestore.unreachable", zap.String("addr", addr), zap.Error(err))
	}
	return store, nil
}

func buildProvider(ctx context.Context, cfg config.Config, logger *zap.Logger) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "none":
		return llm.Unconfigured{}, nil
	case "openai":
		p, err := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
		if err != nil {
			return devFallback(cfg, logger, err)
		}
		return p, nil
	default:
		p, err := gemini.New(ctx, cfg.GoogleAPIKey, gemini.Options{})
		if err != nil {
			return devFallback(cfg, logger, err)
		}
		return p, nil
	}
}

// devFallback keeps local runs usable without credentials; generation then
// fails per request with a permanent error.
func devFallback(cfg config.Config, logger *zap.Logger, err error) (llm.Provider, error) {
	if !isDevLike(cfg.Env) {
		return nil, err
	}
	logger.Warn("bootstrap.llm.unconfigured", zap.String("provider", cfg.LLMProvider), zap.Error(err))
	return llm.Unconfigured{}, nil
}

func modelsFor(cfg config.Config, provider string) llm.Models {
	models := gemini.DefaultModels
	if provider == "openai" {
		models = openai.DefaultModels
	}
	if cfg.LLMModelFast != "" {
		models.Fast = cfg.LLMModelFast
	}
	if cfg.LLMModelPro != "" {
		models.Pro = cfg.LLMModelPro
	}
	return models
}

func buildSearcher(ctx context.Context, cfg config.Config) (websearch.Searcher, error) {
	switch cfg.SearchProvider {
	case "none":
		return websearch.Nop{}, nil
	case "google":
		return websearch.NewGoogle(ctx, cfg.GoogleSearchAPIKey, cfg.GoogleSearchCX, cfg.SearchBaseURL)
	default:
		return websearch.NewDuckDuckGo(cfg.SearchBaseURL, &http.Client{Timeout: cfg.SearchTimeout}), nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
	} else {
		app.AnalysesRepo = analyses.NewMemoryRepo()
	}

	evaluator := analyses.NewEvaluator(app.Evaluation, app.Config.EvalConcurrency, app.Logger)
	app.AnalysesService = analyses.NewService(app.AnalysesRepo, app.Evaluation, evaluator, app.Config.LLMProvider, app.Logger)

	pipeline := optimizer.NewPipeline(app.Generator, app.Search, app.Logger)
	app.OptimizerService = optimizer.NewService(pipeline, app.Store, app.Renderer, app.Logger)

	app.Health = health.NewService(0)
	app.Health.Register("state_store", app.Store.Ping)
	if app.DB != nil {
		sqlDB := app.DB
		app.Health.Register("database", func(ctx context.Context) error {
			return db.Ping(ctx, sqlDB, 0)
		})
	}
}

func rateLimits(cfg config.Config) map[string]middleware.RateLimitRule {
	if cfg.PipelineRatePerMinute <= 0 {
		return nil
	}
	return map[string]middleware.RateLimitRule{
		middleware.PipelineGroup: {
			Rate:  float64(cfg.PipelineRatePerMinute) / 60,
			Burst: cfg.PipelineBurst,
		},
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
