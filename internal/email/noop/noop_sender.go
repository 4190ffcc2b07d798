package noop

import (
	"context"
	"log"

	"medscan/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs deliveries to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendReportEmail(_ context.Context, toEmail, toName, subject, reportMarkdown string) error {
	log.Printf("[NOOP EMAIL] Report email for %s (%s): %s (%d bytes)", toName, toEmail, subject, len(reportMarkdown))
	return nil
}
