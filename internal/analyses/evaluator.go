package analyses

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"resumeforge/internal/extract"
	"resumeforge/internal/llm"
	"resumeforge/internal/prompts"
	"resumeforge/internal/shared/metrics"
	"resumeforge/internal/shared/telemetry"
)

const (
	evaluationTemperature = 0.2
	defaultConcurrency    = 4
)

// Category evaluation outcomes recorded in metrics.
const (
	outcomeOK        = "ok"
	outcomeError     = "error"
	outcomeMalformed = "malformed"
)

// sectionContext names the identified section each category is scored on.
// Categories not listed are scored on the full text.
var sectionContext = map[string]string{
	CategorySummary:    extract.SectionSummary,
	CategoryExperience: extract.SectionExperience,
	CategorySkills:     extract.SectionSkills,
}

// Evaluator scores every category with one generator call each, concurrently.
type Evaluator struct {
	gen         llm.Generator
	concurrency int
	logger      *zap.Logger
}

// NewEvaluator constructs an Evaluator. gen should already carry the retry policy.
func NewEvaluator(gen llm.Generator, concurrency int, logger *zap.Logger) *Evaluator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Evaluator{gen: gen, concurrency: concurrency, logger: telemetry.OrNop(logger)}
}

type evalPromptData struct {
	Text             string
	RoleTitle        string
	HardSkills       string
	Responsibilities string
}

// Evaluate returns one JSON object keyed by category. A category that could not
// be evaluated holds {"error": "..."}; it never aborts the others. The only
// error returned is the caller's context ending.
func (e *Evaluator) Evaluate(ctx context.Context, text string, sections map[string]string, persona Persona) (json.RawMessage, error) {
	results := make([]json.RawMessage, len(Categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, category := range Categories {
		g.Go(func() error {
			results[i] = e.evaluateCategory(gctx, category, categoryText(category, text, sections), persona)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	combined := make(map[string]json.RawMessage, len(Categories))
	for i, category := range Categories {
		combined[category] = results[i]
	}
	return json.Marshal(combined)
}

func (e *Evaluator) evaluateCategory(ctx context.Context, category, text string, persona Persona) json.RawMessage {
	log := e.logger.With(zap.String("category", category))

	prompt, err := prompts.Render(prompts.Evaluation(category), promptData(text, persona))
	if err != nil {
		log.Error("evaluation prompt render failed", zap.Error(err))
		metrics.IncCategoryOutcome(category, outcomeError)
		return llm.ErrorPayload(err)
	}

	out, err := e.gen.Generate(ctx, llm.Request{
		Operation:   "evaluate." + category,
		Prompt:      prompt,
		Tier:        llm.TierPro,
		Temperature: evaluationTemperature,
		JSON:        true,
	})
	if err != nil {
		log.Warn("category evaluation failed", zap.Error(err))
		metrics.IncCategoryOutcome(category, outcomeError)
		return llm.ErrorPayload(err)
	}

	trimmed := strings.TrimSpace(out)
	if !json.Valid([]byte(trimmed)) {
		// keep the raw text so the aggregator reports it as unprocessable
		log.Warn("category evaluation returned invalid JSON", zap.String("preview", telemetry.Truncate(trimmed, 200)))
		metrics.IncCategoryOutcome(category, outcomeMalformed)
		quoted, _ := json.Marshal(trimmed)
		return quoted
	}
	metrics.IncCategoryOutcome(category, outcomeOK)
	return json.RawMessage(trimmed)
}

func categoryText(category, fullText string, sections map[string]string) string {
	if name, ok := sectionContext[category]; ok {
		if body := strings.TrimSpace(sections[name]); body != "" {
			return body
		}
	}
	return fullText
}

func promptData(text string, persona Persona) evalPromptData {
	data := evalPromptData{
		Text:             text,
		RoleTitle:        persona.RoleTitle,
		HardSkills:       strings.Join(persona.HardSkills, ", "),
		Responsibilities: strings.Join(persona.KeyResponsibilities, "; "),
	}
	if data.RoleTitle == "" {
		data.RoleTitle = "the target role"
	}
	if data.HardSkills == "" {
		data.HardSkills = "N/A"
	}
	if data.Responsibilities == "" {
		data.Responsibilities = "N/A"
	}
	return data
}
