package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"resumeforge/internal/shared/apperr"
	"resumeforge/internal/shared/telemetry"
)

// Tier selects the model class for a request.
type Tier string

const (
	TierFast Tier = "fast"
	TierPro  Tier = "pro"
)

// Request describes one generator call.
type Request struct {
	// Operation names the call site for logs and metrics, e.g. "evaluate.skills".
	Operation   string
	Prompt      string
	Tier        Tier
	Temperature float32
	// JSON asks the provider for a structured JSON response.
	JSON bool
}

// Generator is the content-generation capability consumed by the pipelines.
// Implementations return text with surrounding markdown fences removed.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Provider is a raw text-generation backend. Providers classify their SDK
// errors with apperr kinds.
type Provider interface {
	Name() string
	Generate(ctx context.Context, model string, req Request) (string, error)
}

// Models maps tiers to provider model names.
type Models struct {
	Fast string
	Pro  string
}

// For returns the model for a tier, falling back to the other tier when unset.
func (m Models) For(t Tier) string {
	if t == TierPro && m.Pro != "" {
		return m.Pro
	}
	if m.Fast != "" {
		return m.Fast
	}
	return m.Pro
}

// Client wraps a Provider with the per-call timeout and fence stripping every
// generator call goes through.
type Client struct {
	provider Provider
	models   Models
	timeout  time.Duration
	logger   *zap.Logger
}

// NewClient constructs a Client.
func NewClient(provider Provider, models Models, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		provider: provider,
		models:   models,
		timeout:  timeout,
		logger:   telemetry.OrNop(logger),
	}
}

// Generate runs one provider call and strips markdown fences from the output.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	model := c.models.For(req.Tier)
	log := c.logger.With(
		zap.String("ai_provider", c.provider.Name()),
		zap.String("ai_model", model),
		zap.String("operation", req.Operation),
	)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, err := c.provider.Generate(callCtx, model, req)
	elapsed := time.Since(start)
	if err != nil {
		err = classifyUnkinded(err)
		log.Warn("generator call failed",
			zap.Duration("duration", elapsed),
			zap.Stringer("kind", apperr.KindOf(err)),
			zap.Error(err),
		)
		return "", err
	}

	out := StripFences(raw)
	log.Debug("generator call complete",
		zap.Duration("duration", elapsed),
		zap.Int("chars", len(out)),
		zap.String("preview", telemetry.Truncate(out, 200)),
	)
	return out, nil
}

// classifyUnkinded gives a kind to errors the provider left unclassified.
func classifyUnkinded(err error) error {
	var kinded *apperr.Error
	if errors.As(err, &kinded) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.E(apperr.KindTransient, "generate", err)
	}
	return apperr.E(apperr.KindPermanent, "generate", err)
}

// ErrNotConfigured is returned by the Unconfigured provider.
var ErrNotConfigured = errors.New("content generator not configured")

// Unconfigured is used when no provider credentials are present.
type Unconfigured struct{}

// Name implements Provider.
func (Unconfigured) Name() string { return "none" }

// Generate always fails with a permanent error.
func (Unconfigured) Generate(ctx context.Context, model string, req Request) (string, error) {
	return "", apperr.E(apperr.KindPermanent, "generate", ErrNotConfigured)
}

// StripFences removes a surrounding ``` or ```json fence from generator output.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string, e.g. "json"
		if !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		}
	} else {
		s = strings.TrimPrefix(strings.TrimSpace(s), "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
