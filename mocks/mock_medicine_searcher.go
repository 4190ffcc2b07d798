package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medscan/internal/port"
)

// MockMedicineSearcher is a mock implementation of port.MedicineSearcher.
type MockMedicineSearcher struct {
	mock.Mock
}

func (m *MockMedicineSearcher) Search(ctx context.Context, query string, limit int) ([]port.SearchResult, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.SearchResult), args.Error(1)
}
