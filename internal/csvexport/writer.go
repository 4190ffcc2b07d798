package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"medscan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (7 columns).
var columns = []string{
	"Category",
	"Test",
	"Value",
	"Unit",
	"Reference Range",
	"Status",
	"Clinical Significance",
}

// Writer wraps csv.Writer for exporting analysis test results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 7-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteAnalysis decodes the analysis' stored parsed report and writes one
// row per test result. Analyses with no parsed report (prescription runs,
// failed runs) produce no rows.
func (w *Writer) WriteAnalysis(a *domain.Analysis) error {
	if len(a.ParsedReport) == 0 {
		return nil
	}

	var parsed domain.ParsedReport
	if err := json.Unmarshal(a.ParsedReport, &parsed); err != nil {
		return fmt.Errorf("csvexport.WriteAnalysis: decoding parsed report: %w", err)
	}
	return w.WriteParsedReport(&parsed)
}

// WriteParsedReport writes one row per test result, in category order.
func (w *Writer) WriteParsedReport(parsed *domain.ParsedReport) error {
	for _, category := range parsed.TestCategories {
		for _, test := range category.Tests {
			row := []string{
				category.Category,
				test.TestName,
				test.Value,
				test.Unit,
				test.ReferenceRange,
				string(test.Status),
				test.ClinicalSignificance,
			}
			if err := w.csv.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a record title for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_title}_{YYYY-MM-DD}.csv
func BuildFilename(title string) string {
	sanitized := SanitizeFilename(title)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
