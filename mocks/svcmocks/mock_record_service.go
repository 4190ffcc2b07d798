package svcmocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medscan/internal/domain"
	"medscan/internal/service"
)

// MockRecordService is a testify mock for service.RecordService.
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) Create(ctx context.Context, input *service.CreateRecordInput) (*domain.HealthRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthRecord), args.Error(1)
}

func (m *MockRecordService) GetByID(ctx context.Context, id uuid.UUID) (*domain.HealthRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthRecord), args.Error(1)
}

func (m *MockRecordService) List(ctx context.Context, limit, offset int) ([]domain.HealthRecord, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.HealthRecord), args.Int(1), args.Error(2)
}

func (m *MockRecordService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
