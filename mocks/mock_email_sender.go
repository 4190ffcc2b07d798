package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReportEmail(ctx context.Context, toEmail, toName, subject, reportMarkdown string) error {
	args := m.Called(ctx, toEmail, toName, subject, reportMarkdown)
	return args.Error(0)
}
