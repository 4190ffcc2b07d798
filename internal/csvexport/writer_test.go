package csvexport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscan/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 7)
	assert.Equal(t, "Category", row[0])
	assert.Equal(t, "Test", row[1])
	assert.Equal(t, "Clinical Significance", row[6])
}

func TestWriteParsedReport(t *testing.T) {
	parsed := &domain.ParsedReport{
		TestCategories: []domain.TestCategory{
			{Category: "Diabetes Panel", Tests: []domain.TestResult{
				{TestName: "HbA1c", Value: "6.7", Unit: "%", ReferenceRange: "4.0-5.6", Status: domain.TestStatusHigh, ClinicalSignificance: "Suggests diabetes"},
				{TestName: "Glucose Fasting", Value: "98", Unit: "mg/dL", ReferenceRange: "70-100", Status: domain.TestStatusNormal},
			}},
			{Category: "Lipid Profile", Tests: []domain.TestResult{
				{TestName: "Total Cholesterol", Value: "210", Unit: "mg/dL", ReferenceRange: "<200", Status: domain.TestStatusBorderline, ClinicalSignificance: "Borderline high"},
			}},
		},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteParsedReport(parsed))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Diabetes Panel", "HbA1c", "6.7", "%", "4.0-5.6", "high", "Suggests diabetes"}, rows[0])
	assert.Equal(t, []string{"Diabetes Panel", "Glucose Fasting", "98", "mg/dL", "70-100", "normal", ""}, rows[1])
	assert.Equal(t, []string{"Lipid Profile", "Total Cholesterol", "210", "mg/dL", "<200", "borderline", "Borderline high"}, rows[2])
}

func TestWriteAnalysis(t *testing.T) {
	parsed := domain.ParsedReport{
		TestCategories: []domain.TestCategory{
			{Category: "General Tests", Tests: []domain.TestResult{
				{TestName: "Hemoglobin", Value: "12.1", Unit: "g/dL", ReferenceRange: "12.0-15.5", Status: domain.TestStatusNormal},
			}},
		},
	}
	raw, err := json.Marshal(parsed)
	require.NoError(t, err)

	a := &domain.Analysis{
		ID:           uuid.New(),
		Kind:         domain.AnalysisKindReport,
		Status:       domain.AnalysisStatusCompleted,
		ParsedReport: raw,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteAnalysis(a))
	w.Flush()

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "Hemoglobin", row[1])
}

func TestWriteAnalysis_NoParsedReport(t *testing.T) {
	a := &domain.Analysis{ID: uuid.New(), Kind: domain.AnalysisKindPrescription}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteAnalysis(a))
	w.Flush()
	assert.Empty(t, buf.String())
}

func TestWriteAnalysis_MalformedJSON(t *testing.T) {
	a := &domain.Analysis{ID: uuid.New(), ParsedReport: json.RawMessage(`{invalid json`)}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Error(t, w.WriteAnalysis(a))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Annual Checkup Labs", "Annual_Checkup_Labs"},
		{"special chars", "CBC / Lipids (Jan–Mar)", "CBC_Lipids_Jan_Mar"},
		{"unicode", "रिपोर्ट Labs", "Labs"},
		{"hyphens and underscores preserved", "my-report_2025", "my-report_2025"},
		{"consecutive underscores collapsed", "test___report", "test_report"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	filename := BuildFilename("Annual Checkup Labs")
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, "Annual_Checkup_Labs_"+today+".csv", filename)
}
