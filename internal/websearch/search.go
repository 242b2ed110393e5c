// Package websearch looks up short public snippets about a company for the
// optimizer's research stage.
package websearch

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"resumeforge/internal/shared/telemetry"
)

const (
	// NoResults is returned by Text when a query finds nothing.
	NoResults = "No information found for the specified query."
	// Failed is returned by Text when the backend errors.
	Failed = "An error occurred during the web search."

	// Separator joins individual result snippets.
	Separator = "\n\n---\n\n"

	DefaultMaxResults = 3
	DefaultTimeout    = 15 * time.Second
)

// Result is one search hit.
type Result struct {
	Title   string
	Link    string
	Snippet string
}

// Searcher runs a web query and returns at most max results.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, max int) ([]Result, error)
}

// Nop finds nothing; it is used when web search is disabled.
type Nop struct{}

// Name implements Searcher.
func (Nop) Name() string { return "none" }

// Search implements Searcher.
func (Nop) Search(ctx context.Context, query string, max int) ([]Result, error) {
	return nil, ctx.Err()
}

// Client turns search results into the text block the research prompt reads.
// Search failures never surface as errors; they become the Failed sentinel.
type Client struct {
	searcher   Searcher
	maxResults int
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient constructs a Client. Zero values pick the defaults.
func NewClient(s Searcher, maxResults int, timeout time.Duration, logger *zap.Logger) *Client {
	if s == nil {
		s = Nop{}
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{searcher: s, maxResults: maxResults, timeout: timeout, logger: telemetry.OrNop(logger)}
}

// Text runs query and returns the snippets joined by Separator, or one of the
// NoResults / Failed sentinels.
func (c *Client) Text(ctx context.Context, query string) string {
	log := c.logger.With(zap.String("search_backend", c.searcher.Name()), zap.String("query", query))

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results, err := c.searcher.Search(callCtx, query, c.maxResults)
	if err != nil {
		log.Warn("web search failed", zap.Error(err))
		return Failed
	}
	text := Format(results, c.maxResults)
	if text == NoResults {
		log.Info("web search returned no results")
	} else {
		log.Debug("web search complete", zap.Int("results", len(results)))
	}
	return text
}

// Format joins up to max non-empty snippets.
func Format(results []Result, max int) string {
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		if max > 0 && len(snippets) == max {
			break
		}
		if s := strings.TrimSpace(r.Snippet); s != "" {
			snippets = append(snippets, s)
		}
	}
	if len(snippets) == 0 {
		return NoResults
	}
	return strings.Join(snippets, Separator)
}

// Found reports whether text carries real results rather than a sentinel.
func Found(text string) bool {
	return text != NoResults && text != Failed && strings.TrimSpace(text) != ""
}
