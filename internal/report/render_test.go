package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"medscan/internal/domain"
)

func frozenRenderer() *Renderer {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return NewRendererWithClock(func() time.Time { return at })
}

func fullParsed() *domain.ParsedReport {
	return &domain.ParsedReport{
		PatientInfo: domain.PatientInfo{
			Name:       "Mrs. Kavita Sharma",
			Age:        "38 years",
			Gender:     "Female",
			ReportDate: "Not specified",
			LabNumber:  "LAB-2231",
		},
		TestCategories: []domain.TestCategory{
			{Category: "Diabetes Panel", Tests: []domain.TestResult{
				{TestName: "HbA1c", Value: "6.7", Unit: "%", ReferenceRange: "4.0-5.6", Status: domain.TestStatusHigh},
				{TestName: "Glucose Fasting", Value: "98", Unit: "mg/dL", ReferenceRange: "70-100", Status: domain.TestStatusNormal},
			}},
		},
		AbnormalFindings: []string{"HbA1c above reference range"},
		CriticalValues:   []string{},
	}
}

func fullDiagnosis() *domain.Diagnosis {
	return &domain.Diagnosis{
		RiskAssessment: domain.RiskAssessment{
			OverallRisk:        domain.RiskHigh,
			CardiovascularRisk: domain.RiskLow,
			DiabetesRisk:       domain.RiskHigh,
			RiskFactors:        []string{"elevated HbA1c"},
		},
		PotentialConditions: []domain.PotentialCondition{
			{Condition: "Type 2 Diabetes", Probability: domain.RiskHigh, SupportingEvidence: []string{"HbA1c 6.7"}, Description: "Glycemic control outside target"},
		},
		Recommendations: []domain.Recommendation{
			{Category: "medical", Recommendation: "Endocrinology referral", Priority: domain.PriorityHigh, Rationale: "Confirmed hyperglycemia"},
			{Category: "follow-up", Recommendation: "Repeat HbA1c in 3 months", Priority: domain.PriorityMedium},
		},
		FollowUpTests:    []string{"Fasting insulin"},
		RedFlags:         []string{"HbA1c in diabetic range"},
		PositiveFindings: []string{"Normal fasting glucose"},
		Summary:          "Findings consistent with diabetes; follow up promptly.",
	}
}

func TestRender_FullReportSections(t *testing.T) {
	out := frozenRenderer().Render(fullParsed(), fullDiagnosis())

	assert.Contains(t, out, "**Generated on:** 2025-03-14 09:26:53")

	// Patient info: populated fields rendered, "Not specified" skipped.
	assert.Contains(t, out, "👤 **Name:** Mrs. Kavita Sharma")
	assert.Contains(t, out, "📅 **Age:** 38 years")
	assert.Contains(t, out, "⚧ **Gender:** Female")
	assert.Contains(t, out, "🆔 **Lab Number:** LAB-2231")
	assert.NotContains(t, out, "Report Date")

	// Risk assessment.
	assert.Contains(t, out, "**Overall Health Risk:** 🔴 **HIGH**")
	assert.Contains(t, out, "**Cardiovascular Risk:** 🟢 Low")
	assert.Contains(t, out, "**Diabetes Risk:** 🔴 High")

	// Test tables.
	assert.Contains(t, out, "### 🔬 Diabetes Panel")
	assert.Contains(t, out, "| Test | Value | Reference Range | Status |")
	assert.Contains(t, out, "| HbA1c | 6.7 % | 4.0-5.6 | 🔺 High |")
	assert.Contains(t, out, "| Glucose Fasting | 98 mg/dL | 70-100 | 🟢 Normal |")

	// Findings.
	assert.Contains(t, out, "## 🚨 CRITICAL FINDINGS - IMMEDIATE ATTENTION REQUIRED")
	assert.Contains(t, out, "- ⚠️ **HbA1c in diabetic range**")
	assert.Contains(t, out, "**🚑 ACTION REQUIRED:** Contact your healthcare provider immediately.")
	assert.Contains(t, out, "- 🔴 HbA1c above reference range")
	assert.Contains(t, out, "- 🟢 Normal fasting glucose")

	// Conditions and recommendations.
	assert.Contains(t, out, "**Type 2 Diabetes** - Probability: 🔴 High")
	assert.Contains(t, out, "- **Supporting Evidence:** HbA1c 6.7")
	assert.Contains(t, out, "### ⚕️ Medical Recommendations")
	assert.Contains(t, out, "- 🔴 **Endocrinology referral**\n  - *Rationale:* Confirmed hyperglycemia")
	assert.Contains(t, out, "### 📅 Follow-Up Recommendations")
	assert.Contains(t, out, "- 🟡 **Repeat HbA1c in 3 months**")

	// Follow-ups, summary, footer.
	assert.Contains(t, out, "- 📋 Fasting insulin")
	assert.Contains(t, out, "## 📋 EXECUTIVE SUMMARY\nFindings consistent with diabetes; follow up promptly.")
	assert.Contains(t, out, "## 📞 NEXT STEPS")
	assert.Contains(t, out, "**🔒 Privacy Note:**")
}

func TestRender_EmptyTestsPlaceholder(t *testing.T) {
	parsed := &domain.ParsedReport{AbnormalFindings: []string{}, CriticalValues: []string{}}
	out := frozenRenderer().Render(parsed, nil)

	assert.Contains(t, out, "No structured test results could be extracted from the report.")
	assert.NotContains(t, out, "RISK ASSESSMENT SUMMARY")
	assert.NotContains(t, out, "ABNORMAL FINDINGS")
	assert.Contains(t, out, "## 📞 NEXT STEPS")
}

func TestRender_Deterministic(t *testing.T) {
	r := frozenRenderer()
	first := r.Render(fullParsed(), fullDiagnosis())
	second := r.Render(fullParsed(), fullDiagnosis())
	assert.Equal(t, first, second)
}

func TestRender_SectionOrder(t *testing.T) {
	out := frozenRenderer().Render(fullParsed(), fullDiagnosis())

	sections := []string{
		"## ⚠️ MEDICAL DISCLAIMER",
		"## 👤 PATIENT INFORMATION",
		"## 🎯 RISK ASSESSMENT SUMMARY",
		"## 📊 DETAILED TEST RESULTS",
		"## 🚨 CRITICAL FINDINGS",
		"## ⚠️ ABNORMAL FINDINGS",
		"## ✅ POSITIVE FINDINGS",
		"## 🔍 POTENTIAL CONDITIONS",
		"## 💡 PERSONALIZED RECOMMENDATIONS",
		"## 🧪 SUGGESTED FOLLOW-UP TESTS",
		"## 📋 EXECUTIVE SUMMARY",
		"## 📞 NEXT STEPS",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(out, section)
		assert.Greater(t, idx, last, "section out of order: %s", section)
		last = idx
	}
}
