package analyses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeforge/internal/extract"
	"resumeforge/internal/llm"
	"resumeforge/internal/shared/apperr"
	"resumeforge/internal/shared/metrics"
	"resumeforge/internal/shared/telemetry"
	"resumeforge/internal/shared/util"
)

const maxJobRoleLen = 200

// Service runs the analysis pipeline and keeps a history of reports.
type Service struct {
	Repo      Repo
	Gen       llm.Generator
	Evaluator *Evaluator
	// Provider names the generator backend recorded with each report.
	Provider string
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewService constructs a Service. gen is used for persona generation and,
// through the evaluator, for category scoring.
func NewService(repo Repo, gen llm.Generator, evaluator *Evaluator, provider string, logger *zap.Logger) *Service {
	return &Service{
		Repo:      repo,
		Gen:       gen,
		Evaluator: evaluator,
		Provider:  provider,
		Logger:    telemetry.OrNop(logger),
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Analyze extracts the upload, runs rule checks, builds a persona, scores every
// category and aggregates the result. Category failures degrade the report;
// only unreadable input or a cancelled context fail the call.
func (s *Service) Analyze(ctx context.Context, up Upload) (Analysis, error) {
	const op = "analyses.analyze"
	role := strings.TrimSpace(up.JobRole)
	if role == "" {
		return Analysis{}, apperr.E(apperr.KindInput, op, errors.New("job_role is required"))
	}
	if len(role) > maxJobRoleLen {
		return Analysis{}, apperr.E(apperr.KindInput, op, errors.New("job_role is too long"))
	}

	fileName, err := util.SanitizeFileName(up.FileName)
	if err != nil {
		fileName = "upload"
	}

	start := time.Now()
	id := uuid.NewString()
	log := s.logger().With(
		zap.String("analysis_id", id),
		zap.String("job_role", role),
		zap.String("file_name", fileName),
	)
	metrics.IncAnalysisStarted()
	log.Info("analysis started")

	report, doc, err := s.run(ctx, up, role, log)
	if err != nil {
		metrics.IncAnalysisFailed()
		log.Warn("analysis failed", zap.Stringer("kind", apperr.KindOf(err)), zap.Error(err))
		return Analysis{}, err
	}

	elapsed := time.Since(start)
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Milliseconds()))

	analysis := Analysis{
		ID:          id,
		JobRole:     role,
		FileName:    fileName,
		ContentHash: util.ContentHash(up.Data),
		PageCount:   doc.PageCount,
		Provider:    s.Provider,
		DurationMs:  elapsed.Milliseconds(),
		Report:      report,
		CreatedAt:   s.now(),
	}
	if s.Repo != nil {
		// history is best effort; the caller still gets the report
		if err := s.Repo.Create(ctx, analysis); err != nil {
			log.Error("analysis history write failed", zap.Error(err))
		}
	}

	log.Info("analysis completed",
		zap.Int("overall_score", report.OverallScore),
		zap.Int("page_count", doc.PageCount),
		zap.Duration("duration", elapsed),
	)
	return analysis, nil
}

func (s *Service) run(ctx context.Context, up Upload, role string, log *zap.Logger) (Report, extract.Document, error) {
	doc, err := extract.Extract(ctx, up.Data, up.FileName, up.MimeType)
	if err != nil {
		return Report{}, extract.Document{}, err
	}
	sections := extract.IdentifySections(doc.Text)
	ruleFeedback := CheckRules(doc.Text, doc.PageCount)
	log.Debug("local checks complete", zap.Int("sections", len(sections)), zap.Int("rules", len(ruleFeedback)))

	persona := GeneratePersona(ctx, s.Gen, role, log)
	if persona.IsEmpty() {
		log.Info("scoring without persona")
	}

	evaluations, err := s.Evaluator.Evaluate(ctx, doc.Text, sections, persona)
	if err != nil {
		return Report{}, extract.Document{}, err
	}
	return Aggregate(evaluations, ruleFeedback), doc, nil
}

// Get returns a stored analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if strings.TrimSpace(analysisID) == "" {
		return Analysis{}, errors.New("analysisID is required")
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns stored analyses ordered newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	return s.Repo.List(ctx, limit, offset)
}

func (s *Service) logger() *zap.Logger {
	return telemetry.OrNop(s.Logger)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
