package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"medscan/internal/domain"
	"medscan/internal/port"
)

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, a *domain.Analysis) error {
	a.CreatedAt = time.Now().UTC()

	query := `INSERT INTO analyses (
		id, record_id, kind, status,
		parsed_report, diagnosis, insight,
		rendered_report, report_s3_key, failure_reason,
		duration_ms, created_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9, $10,
		$11, $12
	)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.RecordID, a.Kind, a.Status,
		a.ParsedReport, a.Diagnosis, a.Insight,
		a.RenderedReport, a.ReportS3Key, a.FailureReason,
		a.DurationMS, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("analysisRepo.Create: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	var a domain.Analysis
	err := r.db.GetContext(ctx, &a,
		"SELECT * FROM analyses WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetByID: %w", err)
	}
	return &a, nil
}

func (r *analysisRepo) ListByRecord(ctx context.Context, recordID uuid.UUID) ([]domain.Analysis, error) {
	var analyses []domain.Analysis
	err := r.db.SelectContext(ctx, &analyses,
		`SELECT * FROM analyses WHERE record_id = $1
		 ORDER BY created_at DESC`, recordID)
	if err != nil {
		return nil, fmt.Errorf("analysisRepo.ListByRecord: %w", err)
	}
	return analyses, nil
}
