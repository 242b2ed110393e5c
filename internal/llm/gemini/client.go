package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"resumeforge/internal/llm"
	"resumeforge/internal/shared/apperr"
)

// DefaultModels are used when LLM_MODEL_FAST / LLM_MODEL_PRO are unset.
var DefaultModels = llm.Models{Fast: "gemini-2.5-flash", Pro: "gemini-2.5-pro"}

// Provider implements llm.Provider over the Gemini API.
type Provider struct {
	client *genai.Client
}

// Options tweaks the underlying client; BaseURL is used by tests.
type Options struct {
	BaseURL string
}

// New constructs a Gemini provider.
func New(ctx context.Context, apiKey string, opts Options) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Provider{client: client}, nil
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "gemini" }

// Generate implements llm.Provider.
func (p *Provider) Generate(ctx context.Context, model string, req llm.Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", classify(err)
	}

	text := collectText(resp)
	if text == "" {
		return "", apperr.E(apperr.KindMalformed, "gemini.generate", errors.New("empty response"))
	}
	return text, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

func classify(err error) error {
	const op = "gemini.generate"
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return apperr.E(apperr.KindTransient, op, err)
		}
		return apperr.E(apperr.KindPermanent, op, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.E(apperr.KindTransient, op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperr.E(apperr.KindTransient, op, err)
	}
	return apperr.E(apperr.KindPermanent, op, err)
}

var _ llm.Provider = (*Provider)(nil)
