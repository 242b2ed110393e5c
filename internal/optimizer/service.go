package optimizer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"resumeforge/internal/schemas"
	"resumeforge/internal/shared/apperr"
	"resumeforge/internal/shared/telemetry"
	"resumeforge/internal/statestore"
	"resumeforge/resume/model"
	"resumeforge/resume/render"
)

// Result is returned after a successful run.
type Result struct {
	WorkflowID string         `json:"workflow_id"`
	ResumeData model.Sections `json:"resume_data"`
}

// Service runs the pipeline and keeps finished resumes in the state store.
type Service struct {
	Pipeline *Pipeline
	Store    statestore.Store
	Renderer render.PDFRenderer
	Header   render.Header
	Logger   *zap.Logger
}

// NewService constructs a Service.
func NewService(pipeline *Pipeline, store statestore.Store, renderer render.PDFRenderer, logger *zap.Logger) *Service {
	return &Service{
		Pipeline: pipeline,
		Store:    store,
		Renderer: renderer,
		Logger:   telemetry.OrNop(logger),
	}
}

// Run validates in, executes every stage and saves the final sections.
func (s *Service) Run(ctx context.Context, in Input) (Result, error) {
	const op = "optimizer.run"
	in = Input{
		JobDescription: strings.TrimSpace(in.JobDescription),
		Role:           strings.TrimSpace(in.Role),
		Company:        strings.TrimSpace(in.Company),
	}
	if err := schemas.Struct("optimizer input", in); err != nil {
		return Result{}, apperr.E(apperr.KindInput, op, err)
	}

	log := s.Logger.With(zap.String("role", in.Role), zap.String("company", in.Company))
	start := time.Now()
	log.Info("optimizer run started")

	state, err := s.Pipeline.Run(ctx, in)
	if err != nil {
		log.Error("optimizer run failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return Result{}, err
	}

	sections := state.FinalReport.FinalResume
	id, err := s.Store.Save(ctx, sections)
	if err != nil {
		log.Error("saving optimizer result failed", zap.Error(err))
		return Result{}, err
	}

	log.Info("optimizer run complete",
		zap.String("workflow_id", id),
		zap.Float64("readability_score", state.FinalReport.ReadabilityScore),
		zap.Duration("duration", time.Since(start)),
	)
	return Result{WorkflowID: id, ResumeData: sections}, nil
}

// Load returns the saved sections for a workflow id.
func (s *Service) Load(ctx context.Context, id string) (model.Sections, error) {
	return s.Store.Load(ctx, strings.TrimSpace(id))
}

// Preview renders the saved sections as HTML.
func (s *Service) Preview(ctx context.Context, id string) (string, error) {
	sections, err := s.Load(ctx, id)
	if err != nil {
		return "", err
	}
	doc, err := render.HTML(sections, s.Header)
	if err != nil {
		return "", apperr.E(apperr.KindInternal, "optimizer.preview", err)
	}
	return doc, nil
}

// PDF renders the saved sections as a PDF document.
func (s *Service) PDF(ctx context.Context, id string) ([]byte, error) {
	sections, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Renderer == nil {
		return nil, apperr.Errorf(apperr.KindInternal, "optimizer.pdf", "pdf renderer not configured")
	}
	pdf, err := s.Renderer.PDF(ctx, sections, s.Header)
	if err != nil {
		s.Logger.Error("pdf render failed", zap.String("workflow_id", id), zap.Error(err))
		return nil, apperr.E(apperr.KindInternal, "optimizer.pdf", err)
	}
	return pdf, nil
}
