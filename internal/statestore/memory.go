package statestore

import (
	"context"
	"sync"
	"time"

	"resumeforge/internal/shared/apperr"
	"resumeforge/resume/model"
)

type memoryEntry struct {
	sections model.Sections
	expires  time.Time
}

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore constructs a MemoryStore. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttlOrDefault(ttl),
		now:     time.Now,
	}
}

// Save stores sections under a fresh id.
func (s *MemoryStore) Save(ctx context.Context, sections model.Sections) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
		}
	}
	id := newID()
	s.entries[id] = memoryEntry{sections: sections, expires: now.Add(s.ttl)}
	return id, nil
}

// Load returns the sections saved under id.
func (s *MemoryStore) Load(ctx context.Context, id string) (model.Sections, error) {
	const op = "statestore.load"
	if err := ctx.Err(); err != nil {
		return model.Sections{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return model.Sections{}, apperr.E(apperr.KindNotFound, op, ErrNotFound)
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, id)
		return model.Sections{}, apperr.E(apperr.KindNotFound, op, ErrNotFound)
	}
	return e.sections, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

var _ Store = (*MemoryStore)(nil)
