package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PatientInfo holds identifying fields extracted from a report header.
// Fields the document does not supply carry the literal "Not specified".
type PatientInfo struct {
	Name       string `json:"name"`
	Age        string `json:"age"`
	Gender     string `json:"gender"`
	ReportDate string `json:"report_date"`
	LabNumber  string `json:"lab_number"`
}

// TestResult is a single lab measurement.
type TestResult struct {
	TestName             string     `json:"test_name"`
	Value                string     `json:"value"`
	Unit                 string     `json:"unit"`
	ReferenceRange       string     `json:"reference_range"`
	Status               TestStatus `json:"status"`
	ClinicalSignificance string     `json:"clinical_significance,omitempty"`
}

// TestCategory groups test results under a panel name such as
// "Complete Blood Count" or "Lipid Profile".
type TestCategory struct {
	Category string       `json:"category"`
	Tests    []TestResult `json:"tests"`
}

// ParsedReport is the structured form of a medical report.
// All four fields are always populated, even when parsing falls back.
type ParsedReport struct {
	PatientInfo      PatientInfo    `json:"patient_info"`
	TestCategories   []TestCategory `json:"test_categories"`
	AbnormalFindings []string       `json:"abnormal_findings"`
	CriticalValues   []string       `json:"critical_values"`
}

// RiskAssessment summarizes overall and per-domain health risk.
type RiskAssessment struct {
	OverallRisk        RiskLevel `json:"overall_risk"`
	CardiovascularRisk RiskLevel `json:"cardiovascular_risk"`
	DiabetesRisk       RiskLevel `json:"diabetes_risk"`
	RiskFactors        []string  `json:"risk_factors"`
}

// PotentialCondition is a condition worth discussing with a physician.
type PotentialCondition struct {
	Condition          string    `json:"condition"`
	Probability        RiskLevel `json:"probability"`
	SupportingEvidence []string  `json:"supporting_evidence"`
	Description        string    `json:"description"`
}

// Recommendation is one actionable suggestion, grouped by category
// (lifestyle, dietary, medical, follow-up).
type Recommendation struct {
	Category       string   `json:"category"`
	Recommendation string   `json:"recommendation"`
	Priority       Priority `json:"priority"`
	Rationale      string   `json:"rationale"`
}

// Diagnosis is the AI-generated interpretation of a parsed report.
type Diagnosis struct {
	RiskAssessment      RiskAssessment       `json:"risk_assessment"`
	PotentialConditions []PotentialCondition `json:"potential_conditions"`
	Recommendations     []Recommendation     `json:"recommendations"`
	FollowUpTests       []string             `json:"follow_up_tests"`
	RedFlags            []string             `json:"red_flags"`
	PositiveFindings    []string             `json:"positive_findings"`
	Summary             string               `json:"summary"`
}

// MedicineInfo is the lookup result for a single medicine name.
type MedicineInfo struct {
	Name         string     `json:"name"`
	InfoMarkdown string     `json:"info_markdown"`
	URL          string     `json:"url"`
	Description  string     `json:"description"`
	Status       InfoStatus `json:"status"`
}

// PrescriptionInsight is the synthesized analysis of a prescription's
// medicines. List fields are never empty: generic guidance is substituted
// when the AI response yields nothing extractable.
type PrescriptionInsight struct {
	Summary            string         `json:"summary"`
	KeyFindings        []string       `json:"keyFindings"`
	RiskWarnings       []string       `json:"riskWarnings"`
	Recommendations    []string       `json:"recommendations"`
	PredictiveInsights []string       `json:"predictiveInsights"`
	DetailedReport     string         `json:"detailedReport"`
	MedicineNames      []string       `json:"medicineNames"`
	MedicineInfo       []MedicineInfo `json:"medicineInfo"`
	Confidence         float64        `json:"confidence"`
	AnalysisType       string         `json:"analysisType"`
	AIDisclaimer       string         `json:"aiDisclaimer"`
	Disclaimer         string         `json:"disclaimer"`
}

// HealthRecord is a stored uploaded document with optional object storage
// location.
type HealthRecord struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	RecordType  RecordType `db:"record_type" json:"record_type"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	FileName    string     `db:"file_name" json:"file_name"`
	ContentType string     `db:"content_type" json:"content_type"`
	FileSize    int64      `db:"file_size" json:"file_size"`
	S3Bucket    string     `db:"s3_bucket" json:"s3_bucket,omitempty"`
	S3Key       string     `db:"s3_key" json:"s3_key,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Analysis is a persisted pipeline run. ParsedReport and Diagnosis are
// stored as JSON for report runs; Insight for prescription runs.
type Analysis struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	RecordID       *uuid.UUID      `db:"record_id" json:"record_id,omitempty"`
	Kind           AnalysisKind    `db:"kind" json:"kind"`
	Status         AnalysisStatus  `db:"status" json:"status"`
	ParsedReport   json.RawMessage `db:"parsed_report" json:"parsed_report,omitempty"`
	Diagnosis      json.RawMessage `db:"diagnosis" json:"diagnosis,omitempty"`
	Insight        json.RawMessage `db:"insight" json:"insight,omitempty"`
	RenderedReport string          `db:"rendered_report" json:"rendered_report,omitempty"`
	ReportS3Key    string          `db:"report_s3_key" json:"report_s3_key,omitempty"`
	FailureReason  string          `db:"failure_reason" json:"failure_reason,omitempty"`
	DurationMS     int64           `db:"duration_ms" json:"duration_ms"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
