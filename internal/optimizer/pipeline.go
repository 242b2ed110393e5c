package optimizer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"resumeforge/internal/llm"
	"resumeforge/internal/shared/apperr"
	"resumeforge/internal/shared/metrics"
	"resumeforge/internal/shared/telemetry"
	"resumeforge/internal/websearch"
)

// Pipeline executes the optimizer stages in order. Stages are never retried;
// the first failure aborts the run.
type Pipeline struct {
	gen    llm.Generator
	search *websearch.Client
	logger *zap.Logger
}

// NewPipeline constructs a Pipeline. A nil search client disables web research.
func NewPipeline(gen llm.Generator, search *websearch.Client, logger *zap.Logger) *Pipeline {
	logger = telemetry.OrNop(logger)
	if search == nil {
		search = websearch.NewClient(websearch.Nop{}, 0, 0, logger)
	}
	return &Pipeline{gen: gen, search: search, logger: logger}
}

// Run executes every stage and returns the final state.
func (p *Pipeline) Run(ctx context.Context, in Input) (State, error) {
	state := NewState(in)
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return state, &StageError{Stage: st.name, Err: err}
		}
		next, err := p.runStage(ctx, st, state)
		if err != nil {
			return state, err
		}
		state = next
	}
	if state.FinalReport == nil {
		return state, apperr.E(apperr.KindInternal, "optimizer", errors.New("pipeline finished without a final report"))
	}
	return state, nil
}

func (p *Pipeline) runStage(ctx context.Context, st stage, state State) (State, error) {
	log := p.logger.With(zap.String("stage", st.name))
	start := time.Now()

	err := checkRequires(st, state)
	var upd StateUpdate
	if err == nil {
		upd, err = st.run(p, ctx, st, state)
	}
	elapsed := time.Since(start)
	metrics.ObserveStageSeconds(st.name, elapsed.Seconds())

	if err != nil {
		kind := apperr.KindOf(err)
		metrics.IncStageFailure(st.name, kind.String())
		log.Warn("optimizer stage failed",
			zap.Duration("duration", elapsed),
			zap.Stringer("kind", kind),
			zap.Error(err),
		)
		return state, &StageError{Stage: st.name, Err: err}
	}
	log.Info("optimizer stage complete", zap.Duration("duration", elapsed))
	return state.Apply(upd), nil
}
