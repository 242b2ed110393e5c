package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"resumeforge/internal/shared/apperr"
	"resumeforge/internal/shared/metrics"
	"resumeforge/internal/shared/telemetry"
	"resumeforge/internal/shared/util"
)

const (
	DefaultRetryBaseDelay   = 5 * time.Second
	DefaultRetryMaxAttempts = 3
)

// RetryPolicy bounds retries of transient generator failures.
type RetryPolicy struct {
	BaseDelay   time.Duration
	MaxAttempts int
}

// DefaultRetryPolicy is 3 attempts with a 5s base delay doubling each retry.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{BaseDelay: DefaultRetryBaseDelay, MaxAttempts: DefaultRetryMaxAttempts}
}

type retrying struct {
	base   Generator
	policy RetryPolicy
	logger *zap.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps base so transient failures are retried with exponential backoff.
// Non-transient errors return immediately.
func WithRetry(base Generator, policy RetryPolicy, logger *zap.Logger) Generator {
	if base == nil {
		return nil
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultRetryMaxAttempts
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryBaseDelay
	}
	return &retrying{base: base, policy: policy, logger: telemetry.OrNop(logger), wait: sleepCtx}
}

func (r *retrying) Generate(ctx context.Context, req Request) (string, error) {
	delay := r.policy.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		out, err := r.base.Generate(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !apperr.Retryable(err) || attempt == r.policy.MaxAttempts {
			break
		}

		metrics.IncGeneratorRetry(req.Operation)
		r.logger.Warn("generator retry",
			zap.String("operation", req.Operation),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.String("error", util.SanitizeError(err)),
		)
		if err := r.wait(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
	}
	return "", lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
