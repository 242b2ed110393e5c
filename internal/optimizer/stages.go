package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"resumeforge/internal/llm"
	"resumeforge/internal/prompts"
	"resumeforge/internal/schemas"
	"resumeforge/internal/shared/apperr"
	"resumeforge/internal/websearch"
)

// Stage names, in execution order.
const (
	StageContext  = "context_extraction"
	StageResearch = "research"
	StageStrategy = "strategy"
	StageDraft    = "draft_build"
	StageATS      = "ats_refine"
	StageReview   = "final_review"
)

type field string

const (
	fieldContext   field = "context"
	fieldResearch  field = "research"
	fieldStrategy  field = "strategy"
	fieldDraft     field = "draft_text"
	fieldOptimized field = "optimized_text"
)

func (s State) has(f field) bool {
	switch f {
	case fieldContext:
		return s.Context != nil
	case fieldResearch:
		return s.Research != nil
	case fieldStrategy:
		return s.Strategy != nil
	case fieldDraft:
		return strings.TrimSpace(s.DraftText) != ""
	case fieldOptimized:
		return strings.TrimSpace(s.OptimizedText) != ""
	}
	return false
}

type stage struct {
	name        string
	tier        llm.Tier
	temperature float32
	requires    []field
	run         func(p *Pipeline, ctx context.Context, st stage, s State) (StateUpdate, error)
}

var stages = []stage{
	{name: StageContext, tier: llm.TierPro, temperature: 0.0, run: (*Pipeline).extractContext},
	{name: StageResearch, tier: llm.TierFast, temperature: 0.2, requires: []field{fieldContext}, run: (*Pipeline).research},
	{name: StageStrategy, tier: llm.TierPro, temperature: 0.3, requires: []field{fieldContext, fieldResearch}, run: (*Pipeline).strategize},
	{name: StageDraft, tier: llm.TierFast, temperature: 0.5, requires: []field{fieldContext, fieldResearch, fieldStrategy}, run: (*Pipeline).buildDraft},
	{name: StageATS, tier: llm.TierPro, temperature: 0.2, requires: []field{fieldDraft, fieldContext}, run: (*Pipeline).refineATS},
	{name: StageReview, tier: llm.TierFast, temperature: 0.0, requires: []field{fieldOptimized, fieldStrategy}, run: (*Pipeline).review},
}

// StageNames lists the stages in execution order.
func StageNames() []string {
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = st.name
	}
	return names
}

func stageByName(name string) (stage, bool) {
	for _, st := range stages {
		if st.name == name {
			return st, true
		}
	}
	return stage{}, false
}

func checkRequires(st stage, s State) error {
	for _, f := range st.requires {
		if !s.has(f) {
			return apperr.Errorf(apperr.KindPrecondition, st.name, "requires %s from an earlier stage", f)
		}
	}
	return nil
}

func (p *Pipeline) generate(ctx context.Context, st stage, prompt string, asJSON bool) (string, error) {
	return p.gen.Generate(ctx, llm.Request{
		Operation:   "optimizer." + st.name,
		Prompt:      prompt,
		Tier:        st.tier,
		Temperature: st.temperature,
		JSON:        asJSON,
	})
}

// decodeStage validates out against schema before decoding it into v.
func decodeStage(op, schema, out string, v any) error {
	trimmed := strings.TrimSpace(llm.StripFences(out))
	if err := schemas.Validate(schema, []byte(trimmed)); err != nil {
		var le *schemas.SchemaLoadError
		if errors.As(err, &le) {
			return apperr.E(apperr.KindInternal, op, err)
		}
		return apperr.E(apperr.KindMalformed, op, err)
	}
	return llm.DecodeObject(op, trimmed, v)
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

func (p *Pipeline) extractContext(ctx context.Context, st stage, s State) (StateUpdate, error) {
	prompt, err := prompts.Render(prompts.Context, struct {
		Role, Company, JobDescription string
	}{s.Role, s.Company, s.JobDescription})
	if err != nil {
		return StateUpdate{}, apperr.E(apperr.KindInternal, st.name, err)
	}
	out, err := p.generate(ctx, st, prompt, true)
	if err != nil {
		return StateUpdate{}, err
	}
	var jc JobContext
	if err := decodeStage(st.name, schemas.JobContext, out, &jc); err != nil {
		return StateUpdate{}, err
	}
	return StateUpdate{Context: &jc}, nil
}

func researchQueries(company, role string) []string {
	return []string{
		fmt.Sprintf("%s company culture and values", company),
		fmt.Sprintf("%s mission statement", company),
		fmt.Sprintf("what it's like to work as a %s at %s", role, company),
	}
}

func fallbackRoleQuery(company string) string {
	return fmt.Sprintf("employee reviews and work environment at %s", company)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// gatherResearch runs the three lookups concurrently, then retries the role
// lookup with a broader query when it found nothing.
func (p *Pipeline) gatherResearch(ctx context.Context, company, role string) (string, error) {
	queries := researchQueries(company, role)
	results := make([]string, len(queries))

	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			results[i] = p.search.Text(ctx, q)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// An empty, failed or fruitless role lookup gets one broader retry.
	if !websearch.Found(results[2]) {
		p.logger.Info("role search found nothing, trying broader query")
		results[2] = p.search.Text(ctx, fallbackRoleQuery(company))
	}
	return strings.Join(results, "\n\n"), nil
}

func (p *Pipeline) research(ctx context.Context, st stage, s State) (StateUpdate, error) {
	company := firstNonEmpty(s.Context.Company, s.Company)
	role := firstNonEmpty(s.Context.Role, s.Role)

	found, err := p.gatherResearch(ctx, company, role)
	if err != nil {
		return StateUpdate{}, err
	}

	prompt, err := prompts.Render(prompts.Research, struct {
		Company, Role, SearchResults string
	}{company, role, found})
	if err != nil {
		return StateUpdate{}, apperr.E(apperr.KindInternal, st.name, err)
	}
	out, err := p.generate(ctx, st, prompt, true)
	if err != nil {
		return StateUpdate{}, err
	}
	var r Research
	if err := decodeStage(st.name, schemas.Research, out, &r); err != nil {
		return StateUpdate{}, err
	}
	return StateUpdate{Research: &r}, nil
}

func (p *Pipeline) strategize(ctx context.Context, st stage, s State) (StateUpdate, error) {
	prompt, err := prompts.Render(prompts.Strategy, struct {
		Context, Research string
	}{indentJSON(s.Context), indentJSON(s.Research)})
	if err != nil {
		return StateUpdate{}, apperr.E(apperr.KindInternal, st.name, err)
	}
	out, err := p.generate(ctx, st, prompt, true)
	if err != nil {
		return StateUpdate{}, err
	}
	var strategy Strategy
	if err := decodeStage(st.name, schemas.Strategy, out, &strategy); err != nil {
		return StateUpdate{}, err
	}
	return StateUpdate{Strategy: &strategy}, nil
}

func (p *Pipeline) buildDraft(ctx context.Context, st stage, s State) (StateUpdate, error) {
	prompt, err := prompts.Render(prompts.Draft, struct {
		Strategy, Context, Research string
	}{indentJSON(s.Strategy), indentJSON(s.Context), indentJSON(s.Research)})
	if err != nil {
		return StateUpdate{}, apperr.E(apperr.KindInternal, st.name, err)
	}
	out, err := p.generate(ctx, st, prompt, false)
	if err != nil {
		return StateUpdate{}, err
	}
	if strings.TrimSpace(out) == "" {
		return StateUpdate{}, apperr.E(apperr.KindMalformed, st.name, errors.New("empty draft"))
	}
	return StateUpdate{DraftText: out}, nil
}

func (p *Pipeline) refineATS(ctx context.Context, st stage, s State) (StateUpdate, error) {
	prompt, err := prompts.Render(prompts.ATSRefine, struct {
		Context, Draft string
	}{indentJSON(s.Context), s.DraftText})
	if err != nil {
		return StateUpdate{}, apperr.E(apperr.KindInternal, st.name, err)
	}
	out, err := p.generate(ctx, st, prompt, false)
	if err != nil {
		return StateUpdate{}, err
	}
	if strings.TrimSpace(out) == "" {
		return StateUpdate{}, apperr.E(apperr.KindMalformed, st.name, errors.New("empty refined resume"))
	}
	return StateUpdate{OptimizedText: out}, nil
}

func (p *Pipeline) review(ctx context.Context, st stage, s State) (StateUpdate, error) {
	prompt, err := prompts.Render(prompts.Review, struct {
		Strategy, Optimized string
	}{indentJSON(s.Strategy), s.OptimizedText})
	if err != nil {
		return StateUpdate{}, apperr.E(apperr.KindInternal, st.name, err)
	}
	out, err := p.generate(ctx, st, prompt, true)
	if err != nil {
		return StateUpdate{}, err
	}
	var report FinalReport
	if err := decodeStage(st.name, schemas.Review, out, &report); err != nil {
		return StateUpdate{}, err
	}
	if err := report.FinalResume.Validate(); err != nil {
		return StateUpdate{}, apperr.E(apperr.KindMalformed, st.name, err)
	}
	return StateUpdate{FinalReport: &report}, nil
}
