package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"medscan/internal/domain"
)

var (
	riskColors = map[domain.RiskLevel]string{
		domain.RiskLow:      "🟢",
		domain.RiskModerate: "🟡",
		domain.RiskHigh:     "🔴",
	}

	statusLabels = map[domain.TestStatus]string{
		domain.TestStatusNormal:     "🟢 Normal",
		domain.TestStatusAbnormal:   "🔴 Abnormal",
		domain.TestStatusHigh:       "🔺 High",
		domain.TestStatusLow:        "🔻 Low",
		domain.TestStatusBorderline: "🟡 Borderline",
		domain.TestStatusUnknown:    "⚪ Unknown",
	}

	probabilityLabels = map[domain.RiskLevel]string{
		domain.RiskLow:      "🟢 Low",
		domain.RiskModerate: "🟡 Moderate",
		domain.RiskHigh:     "🔴 High",
	}

	priorityIcons = map[domain.Priority]string{
		domain.PriorityLow:    "🔵",
		domain.PriorityMedium: "🟡",
		domain.PriorityHigh:   "🔴",
	}

	patientFieldIcons = map[string]string{
		"Name":        "👤",
		"Age":         "📅",
		"Gender":      "⚧",
		"Report Date": "📋",
		"Lab Number":  "🆔",
	}

	recommendationCategoryIcons = map[string]string{
		"Lifestyle": "🏃‍♂️",
		"Dietary":   "🥗",
		"Medical":   "⚕️",
		"Follow-Up": "📅",
		"General":   "📌",
	}
)

var titleCaser = cases.Title(language.English)

// Renderer turns a parsed report plus its diagnosis into the final
// markdown document served to the user.
type Renderer struct {
	now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// NewRendererWithClock pins the generation timestamp, used by tests.
func NewRendererWithClock(now func() time.Time) *Renderer {
	return &Renderer{now: now}
}

// Render writes every section in a fixed order; sections with no content
// are omitted so the document stays readable for sparse inputs.
func (r *Renderer) Render(parsed *domain.ParsedReport, diag *domain.Diagnosis) string {
	var b strings.Builder

	r.writeHeader(&b)
	writePatientInfo(&b, &parsed.PatientInfo)
	writeRiskAssessment(&b, diag)
	writeTestResults(&b, parsed)
	writeRedFlags(&b, diag)
	writeAbnormalFindings(&b, parsed)
	writePositiveFindings(&b, diag)
	writeConditions(&b, diag)
	writeRecommendations(&b, diag)
	writeFollowUpTests(&b, diag)
	writeSummary(&b, diag)
	writeFooter(&b)

	return b.String()
}

func (r *Renderer) writeHeader(b *strings.Builder) {
	timestamp := r.now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(b, `
# 🏥 COMPREHENSIVE MEDICAL REPORT ANALYSIS
**Generated on:** %s
**Analysis System:** AI Medical Report Scanner v2.0
**Report Type:** Comprehensive Lab Panel Analysis

---

## ⚠️ MEDICAL DISCLAIMER
This analysis is generated by AI for educational and informational purposes only.
**ALWAYS consult with qualified healthcare professionals for medical decisions and treatment.**

---

## 👤 PATIENT INFORMATION
`, timestamp)
}

func writePatientInfo(b *strings.Builder, patient *domain.PatientInfo) {
	fields := []struct {
		label string
		value string
	}{
		{"Name", patient.Name},
		{"Age", patient.Age},
		{"Gender", patient.Gender},
		{"Report Date", patient.ReportDate},
		{"Lab Number", patient.LabNumber},
	}
	for _, f := range fields {
		if f.value == "" || f.value == "Not specified" {
			continue
		}
		icon, ok := patientFieldIcons[f.label]
		if !ok {
			icon = "📌"
		}
		fmt.Fprintf(b, "%s **%s:** %s\n", icon, f.label, f.value)
	}
}

func writeRiskAssessment(b *strings.Builder, diag *domain.Diagnosis) {
	if diag == nil {
		return
	}
	risk := diag.RiskAssessment

	b.WriteString("\n## 🎯 RISK ASSESSMENT SUMMARY\n")

	overall := risk.OverallRisk
	if overall == "" {
		overall = domain.RiskModerate
	}
	fmt.Fprintf(b, "**Overall Health Risk:** %s **%s**\n\n", riskColor(overall), strings.ToUpper(string(overall)))

	if risk.CardiovascularRisk != "" {
		fmt.Fprintf(b, "**Cardiovascular Risk:** %s %s\n", riskColor(risk.CardiovascularRisk), titleCaser.String(string(risk.CardiovascularRisk)))
	}
	if risk.DiabetesRisk != "" {
		fmt.Fprintf(b, "**Diabetes Risk:** %s %s\n", riskColor(risk.DiabetesRisk), titleCaser.String(string(risk.DiabetesRisk)))
	}
}

func riskColor(level domain.RiskLevel) string {
	if color, ok := riskColors[level]; ok {
		return color
	}
	return "🟡"
}

func writeTestResults(b *strings.Builder, parsed *domain.ParsedReport) {
	b.WriteString("\n## 📊 DETAILED TEST RESULTS\n")

	if len(parsed.TestCategories) == 0 {
		b.WriteString("No structured test results could be extracted from the report.\n")
		return
	}

	for _, category := range parsed.TestCategories {
		if len(category.Tests) == 0 {
			continue
		}
		name := category.Category
		if name == "" {
			name = "Unknown Category"
		}
		fmt.Fprintf(b, "\n### 🔬 %s\n", name)
		b.WriteString("| Test | Value | Reference Range | Status |\n")
		b.WriteString("|------|-------|-----------------|--------|\n")

		for _, test := range category.Tests {
			testName := test.TestName
			if testName == "" {
				testName = "Unknown Test"
			}
			value := test.Value
			if value == "" {
				value = "N/A"
			}
			refRange := test.ReferenceRange
			if refRange == "" {
				refRange = "N/A"
			}
			status, ok := statusLabels[test.Status]
			if !ok {
				status = "⚪ Unknown"
			}
			fmt.Fprintf(b, "| %s | %s %s | %s | %s |\n", testName, value, test.Unit, refRange, status)
		}
		b.WriteString("\n")
	}
}

func writeRedFlags(b *strings.Builder, diag *domain.Diagnosis) {
	if diag == nil || len(diag.RedFlags) == 0 {
		return
	}
	b.WriteString("\n## 🚨 CRITICAL FINDINGS - IMMEDIATE ATTENTION REQUIRED\n")
	for _, flag := range diag.RedFlags {
		fmt.Fprintf(b, "- ⚠️ **%s**\n", flag)
	}
	b.WriteString("\n**🚑 ACTION REQUIRED:** Contact your healthcare provider immediately.\n")
}

func writeAbnormalFindings(b *strings.Builder, parsed *domain.ParsedReport) {
	if len(parsed.AbnormalFindings) == 0 {
		return
	}
	b.WriteString("\n## ⚠️ ABNORMAL FINDINGS\n")
	for _, finding := range parsed.AbnormalFindings {
		fmt.Fprintf(b, "- 🔴 %s\n", finding)
	}
}

func writePositiveFindings(b *strings.Builder, diag *domain.Diagnosis) {
	if diag == nil || len(diag.PositiveFindings) == 0 {
		return
	}
	b.WriteString("\n## ✅ POSITIVE FINDINGS\n")
	for _, finding := range diag.PositiveFindings {
		fmt.Fprintf(b, "- 🟢 %s\n", finding)
	}
}

func writeConditions(b *strings.Builder, diag *domain.Diagnosis) {
	if diag == nil || len(diag.PotentialConditions) == 0 {
		return
	}
	b.WriteString("\n## 🔍 POTENTIAL CONDITIONS TO DISCUSS WITH YOUR DOCTOR\n")
	for _, condition := range diag.PotentialConditions {
		probability, ok := probabilityLabels[condition.Probability]
		if !ok {
			probability = "🟡 Moderate"
		}
		name := condition.Condition
		if name == "" {
			name = "Unknown"
		}
		description := condition.Description
		if description == "" {
			description = "No description available"
		}
		fmt.Fprintf(b, "\n**%s** - Probability: %s\n", name, probability)
		fmt.Fprintf(b, "- **Description:** %s\n", description)
		if len(condition.SupportingEvidence) > 0 {
			fmt.Fprintf(b, "- **Supporting Evidence:** %s\n", strings.Join(condition.SupportingEvidence, ", "))
		}
	}
}

func writeRecommendations(b *strings.Builder, diag *domain.Diagnosis) {
	if diag == nil || len(diag.Recommendations) == 0 {
		return
	}
	b.WriteString("\n## 💡 PERSONALIZED RECOMMENDATIONS\n")

	// Group by title-cased category, preserving first-seen order.
	var order []string
	grouped := map[string][]string{}
	for _, rec := range diag.Recommendations {
		category := rec.Category
		if category == "" {
			category = "general"
		}
		category = titleCaser.String(category)
		if _, seen := grouped[category]; !seen {
			order = append(order, category)
		}

		icon, ok := priorityIcons[rec.Priority]
		if !ok {
			icon = "🟡"
		}
		text := fmt.Sprintf("%s **%s**", icon, rec.Recommendation)
		if rec.Rationale != "" {
			text += fmt.Sprintf("\n  - *Rationale:* %s", rec.Rationale)
		}
		grouped[category] = append(grouped[category], text)
	}

	for _, category := range order {
		icon, ok := recommendationCategoryIcons[category]
		if !ok {
			icon = "📌"
		}
		fmt.Fprintf(b, "\n### %s %s Recommendations\n", icon, category)
		for _, text := range grouped[category] {
			fmt.Fprintf(b, "- %s\n", text)
		}
	}
}

func writeFollowUpTests(b *strings.Builder, diag *domain.Diagnosis) {
	if diag == nil || len(diag.FollowUpTests) == 0 {
		return
	}
	b.WriteString("\n## 🧪 SUGGESTED FOLLOW-UP TESTS\n")
	for _, test := range diag.FollowUpTests {
		fmt.Fprintf(b, "- 📋 %s\n", test)
	}
}

func writeSummary(b *strings.Builder, diag *domain.Diagnosis) {
	if diag == nil || diag.Summary == "" {
		return
	}
	b.WriteString("\n## 📋 EXECUTIVE SUMMARY\n")
	fmt.Fprintf(b, "%s\n", diag.Summary)
}

func writeFooter(b *strings.Builder) {
	b.WriteString("\n---\n")
	b.WriteString("## 📞 NEXT STEPS\n")
	b.WriteString("1. **Schedule an appointment** with your healthcare provider to discuss these results\n")
	b.WriteString("2. **Bring this report** to your medical consultation\n")
	b.WriteString("3. **Ask questions** about any findings you don't understand\n")
	b.WriteString("4. **Follow recommended** lifestyle modifications and follow-up tests\n\n")
	b.WriteString("**🔒 Privacy Note:** Keep this report confidential and share only with authorized healthcare providers.\n")
	b.WriteString("**⚕️ Remember:** This AI analysis supports but does not replace professional medical advice.\n")
}
