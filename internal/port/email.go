package port

import "context"

// EmailSender defines the contract for delivering rendered reports.
type EmailSender interface {
	SendReportEmail(ctx context.Context, toEmail, toName, subject, reportMarkdown string) error
}
