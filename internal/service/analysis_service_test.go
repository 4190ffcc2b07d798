package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medscan/internal/config"
	"medscan/internal/diagnosis"
	"medscan/internal/domain"
	"medscan/internal/extract"
	"medscan/internal/medicine"
	"medscan/internal/parser"
	"medscan/internal/port"
	"medscan/internal/report"
	"medscan/mocks"
)

const serviceReportJSON = `{
	"patient_info": {"name": "Mr. Arjun Rao", "age": "45 years", "gender": "Male", "report_date": "2025-02-10", "lab_number": "LAB-1001"},
	"test_categories": [
		{"category": "Diabetes Panel", "tests": [
			{"test_name": "HbA1c", "value": "6.8", "unit": "%", "reference_range": "4.0-5.6", "status": "high"}
		]}
	],
	"abnormal_findings": ["HbA1c elevated"],
	"critical_values": []
}`

const serviceDiagnosisJSON = `{
	"risk_assessment": {"overall_risk": "high", "cardiovascular_risk": "moderate", "diabetes_risk": "high", "risk_factors": ["elevated HbA1c"]},
	"potential_conditions": [],
	"recommendations": [],
	"follow_up_tests": [],
	"red_flags": [],
	"positive_findings": [],
	"summary": "Findings consistent with diabetes."
}`

type analysisFixture struct {
	completer *mocks.MockCompleter
	searcher  *mocks.MockMedicineSearcher
	repo      *mocks.MockAnalysisRepo
	records   *mocks.MockHealthRecordRepo
	storage   *mocks.MockObjectStorage
	email     *mocks.MockEmailSender
	s3cfg     *config.S3Config
	svc       AnalysisService
}

func newAnalysisFixture(bucket string) *analysisFixture {
	f := &analysisFixture{
		completer: new(mocks.MockCompleter),
		searcher:  new(mocks.MockMedicineSearcher),
		repo:      new(mocks.MockAnalysisRepo),
		records:   new(mocks.MockHealthRecordRepo),
		storage:   new(mocks.MockObjectStorage),
		email:     new(mocks.MockEmailSender),
		s3cfg:     &config.S3Config{Bucket: bucket, MaxFileSizeMB: 25, PresignExpiry: 3600},
	}

	medCfg := &config.MedicineConfig{MaxWorkers: 2, LookupTimeoutSecs: 2, WaitTimeoutSecs: 5}
	renderer := report.NewRendererWithClock(func() time.Time {
		return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	})

	f.svc = NewAnalysisService(
		extract.NewExtractor(f.completer),
		parser.NewParser(f.completer),
		diagnosis.NewGenerator(f.completer),
		renderer,
		medicine.NewNameExtractor(f.completer, nil),
		medicine.NewLookup(f.searcher, medCfg),
		medicine.NewInsightGenerator(f.completer),
		f.repo,
		f.records,
		f.storage,
		f.s3cfg,
		f.email,
	)
	return f
}

func TestAnalyzeReport_FullPipeline(t *testing.T) {
	f := newAnalysisFixture("")
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(serviceReportJSON, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(serviceDiagnosisJSON, nil).Once()
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Analysis")).Return(nil).Once()

	recordID := uuid.New()
	analysis, err := f.svc.AnalyzeReport(context.Background(), &AnalyzeReportInput{
		RecordID: &recordID,
		FileName: "labs.txt",
		Data:     []byte("HbA1c: 6.8 % (4.0-5.6)"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AnalysisKindReport, analysis.Kind)
	assert.Equal(t, domain.AnalysisStatusCompleted, analysis.Status)
	assert.Equal(t, &recordID, analysis.RecordID)
	assert.NotEmpty(t, analysis.ParsedReport)
	assert.NotEmpty(t, analysis.Diagnosis)
	assert.Contains(t, analysis.RenderedReport, "COMPREHENSIVE MEDICAL REPORT ANALYSIS")
	assert.Contains(t, analysis.RenderedReport, "| HbA1c | 6.8 % | 4.0-5.6 | 🔺 High |")
	assert.Empty(t, analysis.ReportS3Key)
	f.repo.AssertExpectations(t)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestAnalyzeReport_EmptyDocument(t *testing.T) {
	f := newAnalysisFixture("")
	_, err := f.svc.AnalyzeReport(context.Background(), &AnalyzeReportInput{FileName: "labs.txt"})
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestAnalyzeReport_ArchivesWhenBucketConfigured(t *testing.T) {
	f := newAnalysisFixture("medscan-reports")
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(serviceReportJSON, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(serviceDiagnosisJSON, nil).Once()
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(input port.UploadInput) bool {
		return input.Bucket == "medscan-reports" && input.ContentType == "text/markdown"
	})).Return(&port.UploadOutput{Location: "s3://medscan-reports/x"}, nil).Once()
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	analysis, err := f.svc.AnalyzeReport(context.Background(), &AnalyzeReportInput{
		FileName: "labs.txt",
		Data:     []byte("HbA1c: 6.8"),
	})
	require.NoError(t, err)
	assert.Equal(t, "reports/"+analysis.ID.String()+".md", analysis.ReportS3Key)
	f.storage.AssertExpectations(t)
}

func TestAnalyzeReport_ArchivalFailureIsNotFatal(t *testing.T) {
	f := newAnalysisFixture("medscan-reports")
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(serviceReportJSON, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(serviceDiagnosisJSON, nil).Once()
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down")).Once()
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	analysis, err := f.svc.AnalyzeReport(context.Background(), &AnalyzeReportInput{
		FileName: "labs.txt",
		Data:     []byte("HbA1c: 6.8"),
	})
	require.NoError(t, err)
	assert.Empty(t, analysis.ReportS3Key)
}

func TestAnalyzeReport_SendsNotification(t *testing.T) {
	f := newAnalysisFixture("")
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(serviceReportJSON, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(serviceDiagnosisJSON, nil).Once()
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.email.On("SendReportEmail", mock.Anything, "arjun@example.com", "Arjun", mock.Anything, mock.Anything).
		Return(nil).Once()

	_, err := f.svc.AnalyzeReport(context.Background(), &AnalyzeReportInput{
		FileName:    "labs.txt",
		Data:        []byte("HbA1c: 6.8"),
		NotifyEmail: "arjun@example.com",
		NotifyName:  "Arjun",
	})
	require.NoError(t, err)
	f.email.AssertExpectations(t)
}

func TestAnalyzePrescription_TextPath(t *testing.T) {
	f := newAnalysisFixture("")
	// Name extraction, then insight generation.
	f.completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return len(p) > 0
	})).Return(`["Metformin"]`, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).
		Return("## Metformin\n\n**Summary** ok", nil).Once()
	f.searcher.On("Search", mock.Anything, "Metformin medicine price availability", 1).
		Return([]port.SearchResult{{Markdown: "# Metformin", URL: "https://example.com"}}, nil).Once()
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	analysis, err := f.svc.AnalyzePrescription(context.Background(), &AnalyzePrescriptionInput{
		Title:       "Diabetes Rx",
		Description: "Metformin 500mg twice daily",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AnalysisKindPrescription, analysis.Kind)
	assert.Equal(t, domain.AnalysisStatusCompleted, analysis.Status)
	assert.NotEmpty(t, analysis.Insight)
	f.repo.AssertExpectations(t)
}

func TestAnalyzePrescription_ImagePath(t *testing.T) {
	f := newAnalysisFixture("")
	f.completer.On("CompleteWithImage", mock.Anything, mock.Anything, mock.Anything, "image/png").
		Return(`["Metformin", "Aspirin"]`, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).
		Return("## Metformin\n## Aspirin", nil).Once()
	f.searcher.On("Search", mock.Anything, mock.Anything, 1).
		Return([]port.SearchResult{{Markdown: "info"}}, nil).Twice()
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	analysis, err := f.svc.AnalyzePrescription(context.Background(), &AnalyzePrescriptionInput{
		Image:       []byte{0x89, 0x50},
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisStatusCompleted, analysis.Status)
}

func TestAnalyzePrescription_RejectsBadImageType(t *testing.T) {
	f := newAnalysisFixture("")
	_, err := f.svc.AnalyzePrescription(context.Background(), &AnalyzePrescriptionInput{
		Image:       []byte{1},
		ContentType: "image/gif",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestAnalyzePrescription_NoInputs(t *testing.T) {
	f := newAnalysisFixture("")
	_, err := f.svc.AnalyzePrescription(context.Background(), &AnalyzePrescriptionInput{})
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestAnalyzePrescription_NoMedicinesFound(t *testing.T) {
	f := newAnalysisFixture("")
	f.completer.On("Complete", mock.Anything, mock.Anything).Return("[]", nil).Once()

	_, err := f.svc.AnalyzePrescription(context.Background(), &AnalyzePrescriptionInput{
		Title:       "Note",
		Description: "no medication mentioned",
	})
	assert.ErrorIs(t, err, domain.ErrNoMedicinesFound)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAnalyzePrescription_InsightFailureRecorded(t *testing.T) {
	f := newAnalysisFixture("")
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(`["Metformin"]`, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded")).Once()

	var persisted *domain.Analysis
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Analysis")).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*domain.Analysis)
		}).Return(nil).Once()

	_, err := f.svc.AnalyzePrescription(context.Background(), &AnalyzePrescriptionInput{
		Title:       "Rx",
		Description: "Metformin 500mg",
	})
	require.Error(t, err)

	require.NotNil(t, persisted)
	assert.Equal(t, domain.AnalysisStatusFailed, persisted.Status)
	assert.Contains(t, persisted.FailureReason, "quota exceeded")
}

func TestAnalyzeRecord_ReportPath(t *testing.T) {
	f := newAnalysisFixture("medscan-reports")
	rec := &domain.HealthRecord{
		ID:          uuid.New(),
		RecordType:  domain.RecordTypeLabReport,
		FileName:    "labs.txt",
		ContentType: "text/plain",
		S3Bucket:    "medscan-reports",
		S3Key:       "records/x/labs.txt",
	}
	f.records.On("GetByID", mock.Anything, rec.ID).Return(rec, nil).Once()
	f.storage.On("Download", mock.Anything, "medscan-reports", "records/x/labs.txt").
		Return([]byte("HbA1c: 6.8"), nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(serviceReportJSON, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(serviceDiagnosisJSON, nil).Once()
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil).Once()
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	analysis, err := f.svc.AnalyzeRecord(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisKindReport, analysis.Kind)
	require.NotNil(t, analysis.RecordID)
	assert.Equal(t, rec.ID, *analysis.RecordID)
}

func TestAnalyzeRecord_PrescriptionTextPath(t *testing.T) {
	f := newAnalysisFixture("")
	rec := &domain.HealthRecord{
		ID:          uuid.New(),
		RecordType:  domain.RecordTypePrescription,
		Title:       "Diabetes Rx",
		Description: "Metformin 500mg twice daily",
	}
	f.records.On("GetByID", mock.Anything, rec.ID).Return(rec, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(`["Metformin"]`, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything).Return("## Metformin", nil).Once()
	f.searcher.On("Search", mock.Anything, mock.Anything, 1).
		Return([]port.SearchResult{{Markdown: "info"}}, nil).Once()
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	analysis, err := f.svc.AnalyzeRecord(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisKindPrescription, analysis.Kind)
}

func TestAnalyzeRecord_NotFound(t *testing.T) {
	f := newAnalysisFixture("")
	id := uuid.New()
	f.records.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound).Once()

	_, err := f.svc.AnalyzeRecord(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
