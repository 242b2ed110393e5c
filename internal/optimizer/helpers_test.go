package optimizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"resumeforge/internal/llm"
	"resumeforge/internal/websearch"
	"resumeforge/resume/model"
	"resumeforge/resume/render"
)

const (
	contextJSON  = `{"role":"Backend Engineer","company":"Acme","skills":["Go","PostgreSQL"],"responsibilities":["Build APIs"],"tone":"pragmatic","experience_level":"Senior","boolean_search_string":"(\"Go\" OR \"Golang\") AND \"PostgreSQL\""}`
	researchJSON = `{"company_style":"technical","mission_focus":"reliable payments","key_phrases":["customer obsession"]}`
	strategyJSON = `{"sections":["Summary","Experience","Projects","Skills"],"priority_order":["Summary","Experience","Skills"],"tone_of_voice":"confident and concrete","guidelines":["Lead with impact","Quantify results","Mirror the stack"]}`
	draftText    = "## Summary\nBackend engineer.\n## Experience\n* Built APIs"
	refinedText  = "## Summary\nSenior backend engineer.\n## Experience\n* Built Go APIs serving 10k rps"
	reviewJSON   = `{"readability_score":0.82,"final_resume":{"summary":"Senior backend engineer.","experience":"* Built Go APIs serving 10k rps","projects":"* ledger","skills":"Go, PostgreSQL"}}`
)

// stubGenerator answers by operation name, e.g. "optimizer.research".
type stubGenerator struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []llm.Request
}

func newStubGenerator() *stubGenerator {
	return &stubGenerator{
		responses: map[string]string{
			"optimizer." + StageContext:  contextJSON,
			"optimizer." + StageResearch: researchJSON,
			"optimizer." + StageStrategy: strategyJSON,
			"optimizer." + StageDraft:    draftText,
			"optimizer." + StageATS:      refinedText,
			"optimizer." + StageReview:   reviewJSON,
		},
		errs: map[string]error{},
	}
}

func (s *stubGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if err, ok := s.errs[req.Operation]; ok {
		return "", err
	}
	if out, ok := s.responses[req.Operation]; ok {
		return out, nil
	}
	return "", fmt.Errorf("no scripted response for %s", req.Operation)
}

func (s *stubGenerator) operations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ops := make([]string, len(s.calls))
	for i, c := range s.calls {
		ops[i] = c.Operation
	}
	return ops
}

func (s *stubGenerator) request(op string) (llm.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c.Operation == op {
			return c, true
		}
	}
	return llm.Request{}, false
}

// fakeSearcher answers by exact query text.
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]websearch.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Name() string { return "fake" }

func (f *fakeSearcher) Search(ctx context.Context, query string, max int) ([]websearch.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeSearcher) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// roleFailingSearcher errors on the role-specific query only.
type roleFailingSearcher struct {
	fakeSearcher
}

func (f *roleFailingSearcher) Search(ctx context.Context, query string, max int) ([]websearch.Result, error) {
	if strings.HasPrefix(query, "what it's like to work as") {
		f.mu.Lock()
		f.queries = append(f.queries, query)
		f.mu.Unlock()
		return nil, errors.New("backend unavailable")
	}
	return f.fakeSearcher.Search(ctx, query, max)
}

func newTestPipeline(gen llm.Generator, s websearch.Searcher) *Pipeline {
	return NewPipeline(gen, websearch.NewClient(s, 3, time.Second, nil), nil)
}

type fakeRenderer struct {
	err error
}

func (f fakeRenderer) PDF(ctx context.Context, sections model.Sections, header render.Header) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 " + sections.Summary), nil
}
