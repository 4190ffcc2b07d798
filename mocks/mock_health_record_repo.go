package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medscan/internal/domain"
)

// MockHealthRecordRepo is a mock implementation of port.HealthRecordRepository.
type MockHealthRecordRepo struct {
	mock.Mock
}

func (m *MockHealthRecordRepo) Create(ctx context.Context, rec *domain.HealthRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockHealthRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.HealthRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthRecord), args.Error(1)
}

func (m *MockHealthRecordRepo) List(ctx context.Context, limit, offset int) ([]domain.HealthRecord, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.HealthRecord), args.Int(1), args.Error(2)
}
