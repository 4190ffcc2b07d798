package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"medscan/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendReportEmail(ctx context.Context, toEmail, toName, subject, reportMarkdown string) error {
	htmlBody := buildReportHTML(toName, reportMarkdown)
	textBody := fmt.Sprintf("Hi %s,\n\nYour medical report analysis is ready.\n\n%s\n\nMedScan Team", toName, reportMarkdown)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// buildReportHTML wraps the markdown report in a minimal HTML shell. The
// markdown is delivered verbatim inside a <pre> block so tables and icons
// survive email clients that strip styling.
func buildReportHTML(name, reportMarkdown string) string {
	escaped := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(reportMarkdown)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your medical report analysis is ready</h2>
  <p>Hi %s,</p>
  <p>The AI analysis of your medical report has completed. The full report is below.</p>
  <pre style="white-space: pre-wrap; background: #f8f8f8; padding: 16px; border-radius: 6px; font-size: 13px;">%s</pre>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">MedScan - AI Medical Document Analysis. This analysis does not replace professional medical advice.</p>
</body>
</html>`, name, escaped)
}
