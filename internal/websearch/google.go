package websearch

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Google queries a Programmable Search Engine through the Custom Search API.
type Google struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogle constructs a Google searcher. endpoint overrides the API base URL when set.
func NewGoogle(ctx context.Context, apiKey, cx, endpoint string) (*Google, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(cx) == "" {
		return nil, fmt.Errorf("GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX are required")
	}
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &Google{svc: svc, cx: cx}, nil
}

// Name implements Searcher.
func (g *Google) Name() string { return "google" }

// Search implements Searcher.
func (g *Google) Search(ctx context.Context, query string, max int) ([]Result, error) {
	call := g.svc.Cse.List().Cx(g.cx).Q(query).Context(ctx)
	if max > 0 {
		call = call.Num(int64(max))
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil {
			continue
		}
		results = append(results, Result{Title: item.Title, Link: item.Link, Snippet: item.Snippet})
	}
	return results, nil
}

var _ Searcher = (*Google)(nil)
