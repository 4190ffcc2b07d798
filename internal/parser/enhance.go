package parser

import (
	"regexp"
	"strconv"
	"strings"

	"medscan/internal/domain"
)

var numberPattern = regexp.MustCompile(`[\d.]+`)

// EnhanceTestStatus applies deterministic thresholds to recognized tests,
// overriding the AI-assigned status. Unrecognized tests and unparsable
// values are left untouched.
func EnhanceTestStatus(report *domain.ParsedReport) {
	for ci := range report.TestCategories {
		tests := report.TestCategories[ci].Tests
		for ti := range tests {
			test := &tests[ti]
			name := strings.ToLower(test.TestName)

			numStr := numberPattern.FindString(test.Value)
			if numStr == "" {
				continue
			}
			value, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				continue
			}

			switch {
			case strings.Contains(name, "hba1c") || strings.Contains(name, "glycosylated hemoglobin"):
				applyThresholds(test, value, 6.5, "Suggests diabetes", 5.7, "Prediabetic range")
			case strings.Contains(name, "glucose") && strings.Contains(name, "fasting"):
				applyThresholds(test, value, 126, "Diabetic range", 100, "Impaired fasting glucose")
			case strings.Contains(name, "cholesterol") && strings.Contains(name, "total"):
				applyThresholds(test, value, 240, "High cardiovascular risk", 200, "Borderline high")
			}
		}
	}
}

func applyThresholds(test *domain.TestResult, value, high float64, highNote string, borderline float64, borderlineNote string) {
	switch {
	case value >= high:
		test.Status = domain.TestStatusHigh
		test.ClinicalSignificance = highNote
	case value >= borderline:
		test.Status = domain.TestStatusBorderline
		test.ClinicalSignificance = borderlineNote
	default:
		test.Status = domain.TestStatusNormal
	}
}
