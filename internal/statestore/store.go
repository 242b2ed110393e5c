// Package statestore keeps finished optimizer results for a limited time
// under an opaque workflow id.
package statestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumeforge/resume/model"
)

const (
	// DefaultTTL is how long a saved result stays retrievable.
	DefaultTTL = 600 * time.Second
	opTimeout  = 5 * time.Second
)

var (
	// ErrNotFound means the id is unknown or its entry expired.
	ErrNotFound = errors.New("workflow not found or expired")
	// ErrUnavailable means the backing store could not be reached.
	ErrUnavailable = errors.New("state store unavailable")
)

// Store persists final resume sections with a TTL.
type Store interface {
	Save(ctx context.Context, sections model.Sections) (string, error)
	Load(ctx context.Context, id string) (model.Sections, error)
	Ping(ctx context.Context) error
}

func newID() string {
	return uuid.NewString()
}

// validID rejects ids that could never have been issued, so they never reach the backend.
func validID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
