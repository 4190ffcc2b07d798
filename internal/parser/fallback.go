package parser

import (
	"log"
	"regexp"
	"strings"

	"medscan/internal/domain"
)

const (
	// fallbackMaxTests caps how many regex-detected tests the fallback keeps.
	fallbackMaxTests = 15

	// fallbackHeaderLines is how many leading lines are scanned for patient info.
	fallbackHeaderLines = 20

	notSpecified = "Not specified"

	manualReviewFinding = "Unable to automatically detect abnormal findings - manual review recommended"
)

var (
	namePattern   = regexp.MustCompile(`(Mr\.|Mrs\.|Ms\.)\s+([A-Za-z\s]+)`)
	agePattern    = regexp.MustCompile(`(\d+)\s+[Yy]ears`)
	genderPattern = regexp.MustCompile(`(Male|Female)`)

	// testLinePattern matches lines like "Hemoglobin: 13.5 g/dL (12.0-15.5)".
	testLinePattern = regexp.MustCompile(`([A-Za-z\s]+):\s*([0-9.]+)\s*([A-Za-z/%]*)\s*\(?([0-9.-]+\s*[-–]\s*[0-9.-]+)?\)?`)
)

// fallbackReport builds a basic structure from the raw text when AI parsing
// is exhausted. All four output fields are populated.
func fallbackReport(text string) *domain.ParsedReport {
	log.Printf("parser.fallbackReport: creating fallback structure for medical data")

	lines := strings.Split(text, "\n")

	patient := domain.PatientInfo{
		Name:       notSpecified,
		Age:        notSpecified,
		Gender:     notSpecified,
		ReportDate: notSpecified,
		LabNumber:  notSpecified,
	}

	header := lines
	if len(header) > fallbackHeaderLines {
		header = header[:fallbackHeaderLines]
	}
	for _, line := range header {
		if strings.Contains(line, "Mr.") || strings.Contains(line, "Mrs.") || strings.Contains(line, "Ms.") {
			if m := namePattern.FindString(line); m != "" {
				patient.Name = strings.TrimSpace(m)
			}
		}
		if strings.Contains(line, "Years") || strings.Contains(line, "years") {
			if m := agePattern.FindStringSubmatch(line); m != nil {
				patient.Age = m[1] + " years"
			}
		}
		if strings.Contains(line, "Male") || strings.Contains(line, "Female") {
			if m := genderPattern.FindString(line); m != "" {
				patient.Gender = m
			}
		}
	}

	var tests []domain.TestResult
	for _, line := range lines {
		m := testLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		refRange := strings.TrimSpace(m[4])
		if refRange == "" {
			refRange = notSpecified
		}
		tests = append(tests, domain.TestResult{
			TestName:       strings.TrimSpace(m[1]),
			Value:          m[2],
			Unit:           m[3],
			ReferenceRange: refRange,
			Status:         domain.TestStatusUnknown,
		})
	}
	if len(tests) > fallbackMaxTests {
		tests = tests[:fallbackMaxTests]
	}

	categories := []domain.TestCategory{}
	if len(tests) > 0 {
		categories = append(categories, domain.TestCategory{
			Category: "General Tests",
			Tests:    tests,
		})
	}

	return &domain.ParsedReport{
		PatientInfo:      patient,
		TestCategories:   categories,
		AbnormalFindings: []string{manualReviewFinding},
		CriticalValues:   []string{},
	}
}
