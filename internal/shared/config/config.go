package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	LogJSON         bool
	LogDebug        bool

	LLMProvider        string
	LLMModelFast       string
	LLMModelPro        string
	GoogleAPIKey       string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	LLMTimeout         time.Duration
	LLMRetryBaseDelay  time.Duration
	LLMRetryMaxAttempt int
	EvalConcurrency    int

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	WorkflowTTL   time.Duration

	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	SearchProvider     string
	SearchBaseURL      string
	SearchTimeout      time.Duration
	GoogleSearchAPIKey string
	GoogleSearchCX     string

	ChromePath string

	PipelineRatePerMinute int
	PipelineBurst         int
}

var defaults = map[string]any{
	"PORT":                   "8000",
	"ENV":                    "dev",
	"CORS_ALLOW_ORIGINS":     "http://localhost:3000",
	"LOG_JSON":               false,
	"LOG_DEBUG":              false,
	"LLM_PROVIDER":           "gemini",
	"LLM_MODEL_FAST":         "",
	"LLM_MODEL_PRO":          "",
	"OPENAI_BASE_URL":        "",
	"LLM_TIMEOUT_SECONDS":    120,
	"LLM_RETRY_BASE_DELAY":   "5s",
	"LLM_RETRY_MAX_ATTEMPTS": 3,
	"EVAL_CONCURRENCY":       4,
	"REDIS_HOST":             "",
	"REDIS_PORT":             "6379",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"WORKFLOW_TTL_SECONDS":   600,
	"DATABASE_URL":           "",
	"DB_MAX_OPEN_CONNS":      0,
	"DB_MAX_IDLE_CONNS":      0,
	"DB_CONN_MAX_LIFETIME":   "0s",
	"DB_CONN_MAX_IDLE_TIME":  "0s",
	"SEARCH_PROVIDER":        "duckduckgo",
	"SEARCH_BASE_URL":        "",
	"SEARCH_TIMEOUT_SECONDS": 15,
	"GOOGLE_SEARCH_API_KEY":  "",
	"GOOGLE_SEARCH_CX":       "",
	"CHROME_PATH":            "",
	"PIPELINE_RATE_PER_MIN":  0,
	"PIPELINE_BURST":         3,
}

// Load reads configuration from env files and environment variables.
func Load() Config {
	if err := loadEnvFiles(".env", "cmd/.env"); err != nil {
		log.Printf("env file load failed: %v", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()
	return v
}

// FromViper maps a populated viper instance onto Config.
func FromViper(v *viper.Viper) Config {
	cfg := Config{
		Port:            v.GetString("PORT"),
		Env:             normalizeEnv(v.GetString("ENV")),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		LogJSON:         v.GetBool("LOG_JSON"),
		LogDebug:        v.GetBool("LOG_DEBUG"),

		LLMProvider:        normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModelFast:       strings.TrimSpace(v.GetString("LLM_MODEL_FAST")),
		LLMModelPro:        strings.TrimSpace(v.GetString("LLM_MODEL_PRO")),
		GoogleAPIKey:       strings.TrimSpace(v.GetString("GOOGLE_API_KEY")),
		OpenAIAPIKey:       strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIBaseURL:      strings.TrimSpace(v.GetString("OPENAI_BASE_URL")),
		LLMTimeout:         seconds(v.GetInt("LLM_TIMEOUT_SECONDS"), 120),
		LLMRetryBaseDelay:  v.GetDuration("LLM_RETRY_BASE_DELAY"),
		LLMRetryMaxAttempt: positive(v.GetInt("LLM_RETRY_MAX_ATTEMPTS"), 3),
		EvalConcurrency:    positive(v.GetInt("EVAL_CONCURRENCY"), 4),

		RedisHost:     strings.TrimSpace(v.GetString("REDIS_HOST")),
		RedisPort:     strings.TrimSpace(v.GetString("REDIS_PORT")),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		WorkflowTTL:   seconds(v.GetInt("WORKFLOW_TTL_SECONDS"), 600),

		DatabaseURL:       strings.TrimSpace(v.GetString("DATABASE_URL")),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),

		SearchProvider:     normalizeSearchProvider(v.GetString("SEARCH_PROVIDER")),
		SearchBaseURL:      strings.TrimSpace(v.GetString("SEARCH_BASE_URL")),
		SearchTimeout:      seconds(v.GetInt("SEARCH_TIMEOUT_SECONDS"), 15),
		GoogleSearchAPIKey: strings.TrimSpace(v.GetString("GOOGLE_SEARCH_API_KEY")),
		GoogleSearchCX:     strings.TrimSpace(v.GetString("GOOGLE_SEARCH_CX")),

		ChromePath: strings.TrimSpace(v.GetString("CHROME_PATH")),

		PipelineRatePerMinute: v.GetInt("PIPELINE_RATE_PER_MIN"),
		PipelineBurst:         positive(v.GetInt("PIPELINE_BURST"), 3),
	}
	if cfg.LLMRetryBaseDelay <= 0 {
		cfg.LLMRetryBaseDelay = 5 * time.Second
	}
	if cfg.Env == "production" && cfg.RedisHost == "" {
		log.Printf("REDIS_HOST is required in production")
	}
	return cfg
}

// RedisAddr returns host:port for the workflow store, or "" when unset.
func (c Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	port := c.RedisPort
	if port == "" {
		port = "6379"
	}
	return fmt.Sprintf("%s:%s", c.RedisHost, port)
}

func seconds(n, def int) time.Duration {
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}

func positive(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "none", "off":
		return "none"
	default:
		return "gemini"
	}
}

func normalizeSearchProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "google":
		return "google"
	case "none", "off":
		return "none"
	default:
		return "duckduckgo"
	}
}
