// Package health reports readiness of the service's backing dependencies.
package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 3 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

// Report is the readiness payload.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// OK reports whether every check passed.
func (r Report) OK() bool { return r.Status == "ok" }

// Service encapsulates health-related checks.
type Service struct {
	mu      sync.RWMutex
	checks  map[string]Check
	timeout time.Duration
}

// NewService constructs a new health service.
func NewService(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{checks: make(map[string]Check), timeout: timeout}
}

// Register adds a named dependency check.
func (s *Service) Register(name string, check Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Names lists the registered checks in sorted order.
func (s *Service) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.checks))
	for n := range s.checks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Status runs every check concurrently, each under the service timeout.
func (s *Service) Status(ctx context.Context) Report {
	s.mu.RLock()
	checks := make(map[string]Check, len(s.checks))
	for n, c := range s.checks {
		checks[n] = c
	}
	s.mu.RUnlock()

	var (
		mu      sync.Mutex
		results = make(map[string]string, len(checks))
		g       errgroup.Group
	)
	for name, check := range checks {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			outcome := "ok"
			if err := check(cctx); err != nil {
				outcome = err.Error()
			}
			mu.Lock()
			results[name] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := "ok"
	for _, outcome := range results {
		if outcome != "ok" {
			status = "degraded"
			break
		}
	}
	return Report{Status: status, Checks: results}
}
