package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analysis_reports (
	id, job_role, file_name, content_hash, page_count, provider, duration_ms, overall_score, report, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	payload, err := json.Marshal(analysis.Report)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.JobRole,
		analysis.FileName,
		analysis.ContentHash,
		analysis.PageCount,
		analysis.Provider,
		analysis.DurationMs,
		analysis.Report.OverallScore,
		payload,
		analysis.CreatedAt,
	)
	return err
}

const selectColumns = `id, job_role, file_name, content_hash, page_count, provider, duration_ms, report, created_at`

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	query := `SELECT ` + selectColumns + `
FROM analysis_reports
WHERE id = $1
LIMIT 1`
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return a, nil
}

// List returns analyses newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + selectColumns + `
FROM analysis_reports
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var provider sql.NullString
	var report []byte
	if err := row.Scan(
		&a.ID,
		&a.JobRole,
		&a.FileName,
		&a.ContentHash,
		&a.PageCount,
		&provider,
		&a.DurationMs,
		&report,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if provider.Valid {
		a.Provider = provider.String
	}
	if len(report) > 0 {
		if err := json.Unmarshal(report, &a.Report); err != nil {
			return Analysis{}, err
		}
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
