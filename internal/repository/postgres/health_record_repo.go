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

type healthRecordRepo struct {
	db *sqlx.DB
}

// NewHealthRecordRepo creates a new PostgreSQL-backed HealthRecordRepository.
func NewHealthRecordRepo(db *sqlx.DB) port.HealthRecordRepository {
	return &healthRecordRepo{db: db}
}

func (r *healthRecordRepo) Create(ctx context.Context, rec *domain.HealthRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := `INSERT INTO health_records (
		id, record_type, title, description,
		file_name, content_type, file_size,
		s3_bucket, s3_key, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9, $10, $11
	)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.RecordType, rec.Title, rec.Description,
		rec.FileName, rec.ContentType, rec.FileSize,
		rec.S3Bucket, rec.S3Key, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("healthRecordRepo.Create: %w", err)
	}
	return nil
}

func (r *healthRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.HealthRecord, error) {
	var rec domain.HealthRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM health_records WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("healthRecordRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *healthRecordRepo) List(ctx context.Context, limit, offset int) ([]domain.HealthRecord, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM health_records")
	if err != nil {
		return nil, 0, fmt.Errorf("healthRecordRepo.List count: %w", err)
	}

	var recs []domain.HealthRecord
	err = r.db.SelectContext(ctx, &recs,
		`SELECT * FROM health_records
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("healthRecordRepo.List: %w", err)
	}
	return recs, total, nil
}
