package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"resumeforge/internal/llm"
	"resumeforge/internal/shared/apperr"
)

// DefaultModels are used when LLM_MODEL_FAST / LLM_MODEL_PRO are unset.
var DefaultModels = llm.Models{Fast: "gpt-4o-mini", Pro: "gpt-4o"}

// Provider implements llm.Provider over OpenAI-compatible chat completions.
type Provider struct {
	client openai.Client
}

// New constructs a Provider. baseURL may point at any OpenAI-compatible endpoint.
func New(apiKey, baseURL string) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// retries are owned by llm.WithRetry
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Provider{client: openai.NewClient(opts...)}, nil
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "openai" }

// Generate implements llm.Provider.
func (p *Provider) Generate(ctx context.Context, model string, req llm.Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if !isGPT5(model) {
		params.Temperature = openai.Float(float64(req.Temperature))
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.E(apperr.KindMalformed, "openai.generate", errors.New("response missing choices"))
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", apperr.E(apperr.KindMalformed, "openai.generate", errors.New("response empty content"))
	}
	return content, nil
}

func classify(err error) error {
	const op = "openai.generate"
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500 {
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

// gpt-5 models reject an explicit temperature.
func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Provider = (*Provider)(nil)
