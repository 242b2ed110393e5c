package analyses

import (
	"context"
	"fmt"
	"sync"

	"resumeforge/internal/llm"
)

// stubGenerator answers by operation name, e.g. "persona" or "evaluate.skills".
type stubGenerator struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	prompts   map[string]string
}

func newStubGenerator() *stubGenerator {
	return &stubGenerator{
		responses: map[string]string{},
		errs:      map[string]error{},
		prompts:   map[string]string{},
	}
}

func (s *stubGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[req.Operation] = req.Prompt
	if err, ok := s.errs[req.Operation]; ok {
		return "", err
	}
	if out, ok := s.responses[req.Operation]; ok {
		return out, nil
	}
	return "", fmt.Errorf("no scripted response for %s", req.Operation)
}

func (s *stubGenerator) prompt(op string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompts[op]
}

// scoreAll scripts every category with the same score.
func (s *stubGenerator) scoreAll(score int) *stubGenerator {
	for _, c := range Categories {
		s.responses["evaluate."+c] = fmt.Sprintf(`{"score": %d, "feedback": "%s feedback"}`, score, c)
	}
	return s
}
