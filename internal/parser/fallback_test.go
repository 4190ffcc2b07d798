package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscan/internal/domain"
)

func TestFallbackReport_PatientInfo(t *testing.T) {
	text := strings.Join([]string{
		"ACME Diagnostics",
		"Patient: Mrs. Kavita Sharma",
		"Age: 38 Years  Sex: Female",
		"",
		"Hemoglobin: 12.1 g/dL (12.0-15.5)",
	}, "\n")

	report := fallbackReport(text)

	assert.Equal(t, "Mrs. Kavita Sharma", report.PatientInfo.Name)
	assert.Equal(t, "38 years", report.PatientInfo.Age)
	assert.Equal(t, "Female", report.PatientInfo.Gender)
	assert.Equal(t, "Not specified", report.PatientInfo.ReportDate)
	assert.Equal(t, "Not specified", report.PatientInfo.LabNumber)
}

func TestFallbackReport_PatientInfoOnlyInHeader(t *testing.T) {
	var lines []string
	for i := 0; i < 25; i++ {
		lines = append(lines, fmt.Sprintf("filler line %d", i))
	}
	lines = append(lines, "Mr. Hidden Patient, 50 Years, Male")

	report := fallbackReport(strings.Join(lines, "\n"))
	assert.Equal(t, "Not specified", report.PatientInfo.Name)
	assert.Equal(t, "Not specified", report.PatientInfo.Age)
}

func TestFallbackReport_TestExtraction(t *testing.T) {
	text := strings.Join([]string{
		"Glucose Fasting: 110 mg/dL (70-100)",
		"Creatinine: 0.9 mg/dL",
		"not a test line",
	}, "\n")

	report := fallbackReport(text)

	require.Len(t, report.TestCategories, 1)
	cat := report.TestCategories[0]
	assert.Equal(t, "General Tests", cat.Category)
	require.Len(t, cat.Tests, 2)

	assert.Equal(t, "Glucose Fasting", cat.Tests[0].TestName)
	assert.Equal(t, "110", cat.Tests[0].Value)
	assert.Equal(t, "mg/dL", cat.Tests[0].Unit)
	assert.Equal(t, "70-100", cat.Tests[0].ReferenceRange)
	assert.Equal(t, domain.TestStatusUnknown, cat.Tests[0].Status)

	assert.Equal(t, "Not specified", cat.Tests[1].ReferenceRange)
}

func TestFallbackReport_CapsAtFifteenTests(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("Serum Marker: %d.5 mg/dL", i))
	}

	report := fallbackReport(strings.Join(lines, "\n"))
	require.Len(t, report.TestCategories, 1)
	assert.Len(t, report.TestCategories[0].Tests, 15)
}

func TestFallbackReport_NoTestsMeansNoCategory(t *testing.T) {
	report := fallbackReport("nothing useful here")
	assert.Empty(t, report.TestCategories)
	assert.Equal(t, []string{manualReviewFinding}, report.AbnormalFindings)
	assert.Empty(t, report.CriticalValues)
}
