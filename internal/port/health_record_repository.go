package port

import (
	"context"

	"github.com/google/uuid"

	"medscan/internal/domain"
)

// HealthRecordRepository persists uploaded health records.
type HealthRecordRepository interface {
	Create(ctx context.Context, rec *domain.HealthRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.HealthRecord, error)
	List(ctx context.Context, limit, offset int) ([]domain.HealthRecord, int, error)
}
