package domain

// DocumentType classifies an uploaded document by how its text is extracted.
type DocumentType string

const (
	DocumentTypePDF   DocumentType = "pdf"
	DocumentTypeImage DocumentType = "image"
	DocumentTypeText  DocumentType = "text"
)

// AllowedExtensions maps file extensions (without dot) to DocumentType.
var AllowedExtensions = map[string]DocumentType{
	"pdf":  DocumentTypePDF,
	"png":  DocumentTypeImage,
	"jpg":  DocumentTypeImage,
	"jpeg": DocumentTypeImage,
	"tiff": DocumentTypeImage,
	"bmp":  DocumentTypeImage,
	"txt":  DocumentTypeText,
	"text": DocumentTypeText,
}

// ImageContentTypes maps image MIME types accepted for prescription analysis.
var ImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// TestStatus is the interpretation of a single lab test result.
type TestStatus string

const (
	TestStatusNormal     TestStatus = "normal"
	TestStatusAbnormal   TestStatus = "abnormal"
	TestStatusHigh       TestStatus = "high"
	TestStatusLow        TestStatus = "low"
	TestStatusBorderline TestStatus = "borderline"
	TestStatusUnknown    TestStatus = "unknown"
)

// RiskLevel grades an assessed health risk or condition probability.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Priority grades a recommendation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// InfoStatus records how a medicine lookup resolved.
type InfoStatus string

const (
	InfoStatusSuccess  InfoStatus = "success"
	InfoStatusFallback InfoStatus = "fallback"
	InfoStatusError    InfoStatus = "error"
)

// AnalysisKind distinguishes the two analysis pipelines.
type AnalysisKind string

const (
	AnalysisKindReport       AnalysisKind = "report"
	AnalysisKindPrescription AnalysisKind = "prescription"
)

// AnalysisStatus is the lifecycle of a stored analysis.
type AnalysisStatus string

const (
	AnalysisStatusCompleted AnalysisStatus = "completed"
	AnalysisStatusFailed    AnalysisStatus = "failed"
)

// RecordType classifies a stored health record.
type RecordType string

const (
	RecordTypeLabReport    RecordType = "lab_report"
	RecordTypePrescription RecordType = "prescription"
	RecordTypeOther        RecordType = "other"
)
