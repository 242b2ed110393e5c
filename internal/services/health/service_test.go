package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusAllHealthy(t *testing.T) {
	svc := NewService(time.Second)
	svc.Register("state_store", func(ctx context.Context) error { return nil })
	svc.Register("database", func(ctx context.Context) error { return nil })

	report := svc.Status(context.Background())
	assert.True(t, report.OK())
	assert.Equal(t, map[string]string{"state_store": "ok", "database": "ok"}, report.Checks)
	assert.Equal(t, []string{"database", "state_store"}, svc.Names())
}

func TestStatusDegradedOnFailure(t *testing.T) {
	svc := NewService(time.Second)
	svc.Register("state_store", func(ctx context.Context) error { return errors.New("connection refused") })
	svc.Register("database", func(ctx context.Context) error { return nil })

	report := svc.Status(context.Background())
	assert.False(t, report.OK())
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, "connection refused", report.Checks["state_store"])
}

func TestStatusAppliesTimeout(t *testing.T) {
	svc := NewService(20 * time.Millisecond)
	svc.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	report := svc.Status(context.Background())
	assert.Equal(t, context.DeadlineExceeded.Error(), report.Checks["slow"])
}

func TestStatusWithoutChecks(t *testing.T) {
	report := NewService(0).Status(context.Background())
	assert.True(t, report.OK())
	assert.Empty(t, report.Checks)
}
