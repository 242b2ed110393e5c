package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultDuckDuckGoURL is the HTML-lite endpoint; it needs no API key.
const DefaultDuckDuckGoURL = "https://lite.duckduckgo.com/lite/"

const userAgent = "Mozilla/5.0 (compatible; resumeforge/1.0)"

// DuckDuckGo scrapes the DuckDuckGo lite results page.
type DuckDuckGo struct {
	baseURL string
	client  *http.Client
}

// NewDuckDuckGo constructs a DuckDuckGo searcher. An empty baseURL uses the public endpoint.
func NewDuckDuckGo(baseURL string, client *http.Client) *DuckDuckGo {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultDuckDuckGoURL
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &DuckDuckGo{baseURL: baseURL, client: client}
}

// Name implements Searcher.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search implements Searcher.
func (d *DuckDuckGo) Search(ctx context.Context, query string, max int) ([]Result, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo results: %w", err)
	}
	return parseLiteResults(doc, max), nil
}

// parseLiteResults pairs each result link with the snippet row right after it.
// Links without a snippet are skipped and do not count toward max.
func parseLiteResults(doc *goquery.Document, max int) []Result {
	var results []Result
	doc.Find("a.result-link").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		snippet := link.Closest("tr").Next().Find("td.result-snippet").First()
		text := strings.Join(strings.Fields(snippet.Text()), " ")
		if text == "" {
			return true
		}
		results = append(results, Result{
			Title:   strings.TrimSpace(link.Text()),
			Link:    strings.TrimSpace(link.AttrOr("href", "")),
			Snippet: text,
		})
		return max <= 0 || len(results) < max
	})
	return results
}

var _ Searcher = (*DuckDuckGo)(nil)
