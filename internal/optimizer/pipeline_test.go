package optimizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/llm"
	"resumeforge/internal/shared/apperr"
	"resumeforge/internal/websearch"
)

var testInput = Input{JobDescription: "We need a Go engineer.", Role: "Backend Engineer", Company: "Acme"}

func TestPipelineRunsStagesInOrder(t *testing.T) {
	gen := newStubGenerator()
	state, err := newTestPipeline(gen, &fakeSearcher{}).Run(context.Background(), testInput)
	require.NoError(t, err)

	want := make([]string, 0, len(stages))
	for _, name := range StageNames() {
		want = append(want, "optimizer."+name)
	}
	assert.Equal(t, want, gen.operations())

	require.NotNil(t, state.FinalReport)
	assert.InDelta(t, 0.82, state.FinalReport.ReadabilityScore, 1e-9)
	assert.Equal(t, "Senior backend engineer.", state.FinalReport.FinalResume.Summary)
	assert.Equal(t, draftText, state.DraftText)
	assert.Equal(t, refinedText, state.OptimizedText)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, state.Context.Skills)
	assert.Len(t, state.Strategy.Guidelines, 3)
}

func TestStageTiersAndTemperatures(t *testing.T) {
	gen := newStubGenerator()
	_, err := newTestPipeline(gen, &fakeSearcher{}).Run(context.Background(), testInput)
	require.NoError(t, err)

	tests := []struct {
		stage string
		tier  llm.Tier
		temp  float32
		json  bool
	}{
		{StageContext, llm.TierPro, 0.0, true},
		{StageResearch, llm.TierFast, 0.2, true},
		{StageStrategy, llm.TierPro, 0.3, true},
		{StageDraft, llm.TierFast, 0.5, false},
		{StageATS, llm.TierPro, 0.2, false},
		{StageReview, llm.TierFast, 0.0, true},
	}
	for _, tt := range tests {
		req, ok := gen.request("optimizer." + tt.stage)
		require.True(t, ok, tt.stage)
		assert.Equal(t, tt.tier, req.Tier, tt.stage)
		assert.InDelta(t, tt.temp, req.Temperature, 1e-6, tt.stage)
		assert.Equal(t, tt.json, req.JSON, tt.stage)
	}
}

func TestStagePreconditions(t *testing.T) {
	p := newTestPipeline(newStubGenerator(), &fakeSearcher{})
	empty := NewState(testInput)

	for _, name := range StageNames()[1:] {
		t.Run(name, func(t *testing.T) {
			gen := newStubGenerator()
			p.gen = gen
			st, ok := stageByName(name)
			require.True(t, ok)

			_, err := p.runStage(context.Background(), st, empty)
			require.Error(t, err)
			assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
			var stageErr *StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, name, stageErr.Stage)
			assert.Empty(t, gen.operations(), "no generator call without preconditions")
		})
	}
}

func TestStagePreconditionsNeedEveryField(t *testing.T) {
	p := newTestPipeline(newStubGenerator(), &fakeSearcher{})
	st, _ := stageByName(StageDraft)

	partial := NewState(testInput).Apply(StateUpdate{Context: &JobContext{Role: "x"}, Research: &Research{}})
	_, err := p.runStage(context.Background(), st, partial)
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "strategy")
}

func TestResearchFallsBackWhenRoleSearchIsEmpty(t *testing.T) {
	search := &fakeSearcher{results: map[string][]websearch.Result{
		"Acme company culture and values":               {{Snippet: "Acme values craft."}, {Snippet: "Teams are small."}},
		"Acme mission statement":                        {{Snippet: "Move money safely."}},
		"employee reviews and work environment at Acme": {{Snippet: "Reviewers praise mentoring."}},
	}}
	gen := newStubGenerator()
	_, err := newTestPipeline(gen, search).Run(context.Background(), testInput)
	require.NoError(t, err)

	seen := search.seen()
	assert.Len(t, seen, 4)
	assert.Equal(t, "employee reviews and work environment at Acme", seen[3])
	assert.Contains(t, seen, "what it's like to work as a Backend Engineer at Acme")

	req, _ := gen.request("optimizer." + StageResearch)
	assert.Contains(t, req.Prompt, "Acme values craft."+websearch.Separator+"Teams are small.")
	assert.Contains(t, req.Prompt, "Move money safely.\n\nReviewers praise mentoring.")
	assert.NotContains(t, req.Prompt, websearch.NoResults)
}

func TestResearchKeepsRoleResultsWithoutFallback(t *testing.T) {
	search := &fakeSearcher{results: map[string][]websearch.Result{
		"what it's like to work as a Backend Engineer at Acme": {{Snippet: "On-call is light."}},
	}}
	gen := newStubGenerator()
	_, err := newTestPipeline(gen, search).Run(context.Background(), testInput)
	require.NoError(t, err)

	assert.Len(t, search.seen(), 3)
	req, _ := gen.request("optimizer." + StageResearch)
	assert.Contains(t, req.Prompt, "On-call is light.")
	assert.Contains(t, req.Prompt, websearch.NoResults)
}

func TestResearchSearchFailureDoesNotFailStage(t *testing.T) {
	gen := newStubGenerator()
	search := &fakeSearcher{err: errors.New("network down")}
	_, err := newTestPipeline(gen, search).Run(context.Background(), testInput)
	require.NoError(t, err)

	// The failed role lookup is retried once with the broader query.
	assert.Len(t, search.seen(), 4)
	req, _ := gen.request("optimizer." + StageResearch)
	assert.Equal(t, 3, strings.Count(req.Prompt, websearch.Failed))
}

func TestResearchFallsBackWhenRoleSearchFails(t *testing.T) {
	search := &roleFailingSearcher{fakeSearcher: fakeSearcher{results: map[string][]websearch.Result{
		"employee reviews and work environment at Acme": {{Snippet: "Reviewers praise mentoring."}},
	}}}
	gen := newStubGenerator()
	_, err := newTestPipeline(gen, search).Run(context.Background(), testInput)
	require.NoError(t, err)

	assert.Len(t, search.seen(), 4)
	req, _ := gen.request("optimizer." + StageResearch)
	assert.Contains(t, req.Prompt, "Reviewers praise mentoring.")
	assert.NotContains(t, req.Prompt, websearch.Failed)
}

func TestMalformedContextAbortsRun(t *testing.T) {
	gen := newStubGenerator()
	gen.responses["optimizer."+StageContext] = "sorry, I cannot help"

	_, err := newTestPipeline(gen, &fakeSearcher{}).Run(context.Background(), testInput)
	require.Error(t, err)
	assert.Equal(t, apperr.KindMalformed, apperr.KindOf(err))
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageContext, stageErr.Stage)
	assert.Equal(t, []string{"optimizer." + StageContext}, gen.operations())
}

func TestStrategyNeedsThreeToFiveGuidelines(t *testing.T) {
	gen := newStubGenerator()
	gen.responses["optimizer."+StageStrategy] = `{"sections":["Summary"],"priority_order":["Summary"],"tone_of_voice":"calm","guidelines":["only one"]}`

	_, err := newTestPipeline(gen, &fakeSearcher{}).Run(context.Background(), testInput)
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageStrategy, stageErr.Stage)
	assert.Equal(t, apperr.KindMalformed, apperr.KindOf(err))
}

func TestReviewRejectsReadabilityOutOfRange(t *testing.T) {
	for _, score := range []string{"1.2", "-0.5"} {
		gen := newStubGenerator()
		gen.responses["optimizer."+StageReview] = `{"readability_score":` + score + `,"final_resume":{"summary":"s","experience":"e","projects":"p","skills":"k"}}`

		_, err := newTestPipeline(gen, &fakeSearcher{}).Run(context.Background(), testInput)
		var stageErr *StageError
		require.True(t, errors.As(err, &stageErr), score)
		assert.Equal(t, StageReview, stageErr.Stage)
		assert.Equal(t, apperr.KindMalformed, apperr.KindOf(err))
	}
}

func TestReviewRequiresCoreSections(t *testing.T) {
	gen := newStubGenerator()
	gen.responses["optimizer."+StageReview] = `{"readability_score":0.5,"final_resume":{"summary":"","experience":"e","projects":"","skills":"k"}}`

	_, err := newTestPipeline(gen, &fakeSearcher{}).Run(context.Background(), testInput)
	require.Error(t, err)
	assert.Equal(t, apperr.KindMalformed, apperr.KindOf(err))
}

func TestGeneratorFailureIsNotRetried(t *testing.T) {
	gen := newStubGenerator()
	gen.errs["optimizer."+StageDraft] = apperr.E(apperr.KindTransient, "generate", errors.New("quota"))

	_, err := newTestPipeline(gen, &fakeSearcher{}).Run(context.Background(), testInput)
	require.Error(t, err)
	assert.Equal(t, apperr.KindTransient, apperr.KindOf(err))

	ops := gen.operations()
	assert.Equal(t, "optimizer."+StageDraft, ops[len(ops)-1])
	assert.Len(t, ops, 4)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := newStubGenerator()
	_, err := newTestPipeline(gen, &fakeSearcher{}).Run(ctx, testInput)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gen.operations())
}

func TestApplyReturnsCopy(t *testing.T) {
	base := NewState(testInput)
	next := base.Apply(StateUpdate{Context: &JobContext{Role: "r"}, DraftText: "draft"})

	assert.Nil(t, base.Context)
	assert.Empty(t, base.DraftText)
	assert.Equal(t, "r", next.Context.Role)
	assert.Equal(t, "draft", next.DraftText)

	again := next.Apply(StateUpdate{})
	assert.Equal(t, next, again)
}
