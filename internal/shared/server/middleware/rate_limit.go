package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resumeforge/internal/shared/server/respond"
)

const (
	defaultRateLimitGroup = "DEFAULT"
	// PipelineGroup covers the endpoints that start generator-backed pipelines.
	PipelineGroup = "PIPELINE"

	// Limiters idle for longer than limiterIdleTTL are dropped once the
	// table grows past sweepThreshold entries.
	limiterIdleTTL = 10 * time.Minute
	sweepThreshold = 4096
)

// RateLimitRule is a token bucket: Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimitConfig maps route groups to rules. Requests in a group without a rule pass.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter keeps one x/time/rate limiter per client and group.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
}

type clientLimiter struct {
	lim      *rate.Limiter
	rule     RateLimitRule
	lastSeen time.Time
}

// NewRateLimiter builds an empty limiter table. now defaults to time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		now:     now,
	}
}

// RateLimit rejects requests over their group's rule with 429 and a Retry-After header.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.ClientIP()) + "|" + group
		allowed, retryAfter := cfg.Limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(float64(retryAfterMs)/1000))))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, retry later.", gin.H{
			"retryAfterMs": retryAfterMs,
		})
	}
}

// Allow takes one token from key's bucket, or reports how long until one is available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	cl, ok := l.clients[key]
	if !ok || cl.rule != rule {
		if len(l.clients) >= sweepThreshold {
			l.sweep(now)
		}
		cl = &clientLimiter{lim: rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst), rule: rule}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	l.mu.Unlock()

	res := cl.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	delay := res.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	res.CancelAt(now)
	return false, delay.Round(time.Millisecond)
}

// Len reports how many client limiters are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *RateLimiter) sweep(now time.Time) {
	for k, cl := range l.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(l.clients, k)
		}
	}
}

// PipelineRoutes groups the pipeline-starting routes under PipelineGroup.
func PipelineRoutes(paths ...string) func(*gin.Context) string {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(c *gin.Context) string {
		if c.Request.Method != http.MethodPost {
			return ""
		}
		if _, ok := set[c.FullPath()]; ok {
			return PipelineGroup
		}
		return ""
	}
}
