package port

import (
	"context"

	"github.com/google/uuid"

	"medscan/internal/domain"
)

// AnalysisRepository persists completed and failed analysis runs.
type AnalysisRepository interface {
	Create(ctx context.Context, a *domain.Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error)
	ListByRecord(ctx context.Context, recordID uuid.UUID) ([]domain.Analysis, error)
}
