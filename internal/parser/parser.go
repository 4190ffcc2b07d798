package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"medscan/internal/domain"
	"medscan/internal/port"
)

// maxAttempts is the number of completion attempts before the deterministic
// fallback takes over. Retries are immediate, no backoff.
const maxAttempts = 3

// Parser turns extracted report text into a structured ParsedReport.
type Parser struct {
	completer port.Completer
}

// NewParser creates a Parser backed by the given completion provider.
func NewParser(completer port.Completer) *Parser {
	return &Parser{completer: completer}
}

// ParseReport is total: it always returns a fully populated report. AI
// attempts that fail on transport, JSON, or structure are retried; after
// maxAttempts the regex fallback produces the result instead.
func (p *Parser) ParseReport(ctx context.Context, text string) *domain.ParsedReport {
	prompt := BuildReportPrompt(text)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := p.completer.Complete(ctx, prompt)
		if err != nil {
			log.Printf("parser.ParseReport: attempt %d - completion error: %v", attempt, err)
			continue
		}

		report, err := decodeReport(CleanJSONResponse(raw))
		if err != nil {
			log.Printf("parser.ParseReport: attempt %d - %v", attempt, err)
			continue
		}

		log.Printf("parser.ParseReport: successfully parsed and validated on attempt %d", attempt)
		EnhanceTestStatus(report)
		return report
	}

	log.Printf("parser.ParseReport: all %d attempts failed, creating fallback structure", maxAttempts)
	return fallbackReport(text)
}

// decodeReport unmarshals sanitized JSON and validates the container types
// of the required keys.
func decodeReport(cleaned string) (*domain.ParsedReport, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("JSON decode error: %w", err)
	}

	if err := validateStructure(raw); err != nil {
		return nil, fmt.Errorf("invalid data structure: %w", err)
	}

	var report domain.ParsedReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, fmt.Errorf("JSON decode error: %w", err)
	}

	normalize(&report)
	return &report, nil
}

// validateStructure requires patient_info to be an object and
// test_categories and abnormal_findings to be arrays.
func validateStructure(raw map[string]json.RawMessage) error {
	if err := requireContainer(raw, "patient_info", '{'); err != nil {
		return err
	}
	if err := requireContainer(raw, "test_categories", '['); err != nil {
		return err
	}
	return requireContainer(raw, "abnormal_findings", '[')
}

func requireContainer(raw map[string]json.RawMessage, key string, open byte) error {
	val, ok := raw[key]
	if !ok {
		return fmt.Errorf("missing key %q", key)
	}
	trimmed := strings.TrimSpace(string(val))
	if len(trimmed) == 0 || trimmed[0] != open {
		return fmt.Errorf("key %q has wrong container type", key)
	}
	return nil
}

// normalize guarantees all list fields are non-nil so the output is always
// fully populated.
func normalize(report *domain.ParsedReport) {
	if report.TestCategories == nil {
		report.TestCategories = []domain.TestCategory{}
	}
	if report.AbnormalFindings == nil {
		report.AbnormalFindings = []string{}
	}
	if report.CriticalValues == nil {
		report.CriticalValues = []string{}
	}
}
