package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"medscan/internal/config"
	"medscan/internal/diagnosis"
	"medscan/internal/domain"
	"medscan/internal/extract"
	"medscan/internal/medicine"
	"medscan/internal/parser"
	"medscan/internal/port"
	"medscan/internal/report"
)

// AnalyzeReportInput is the DTO for medical report analysis requests.
type AnalyzeReportInput struct {
	RecordID    *uuid.UUID
	FileName    string
	Data        []byte
	NotifyEmail string
	NotifyName  string
}

// AnalyzePrescriptionInput is the DTO for prescription analysis requests.
// Either Image (with ContentType) or Title/Description text must be set.
type AnalyzePrescriptionInput struct {
	RecordID    *uuid.UUID
	Image       []byte
	ContentType string
	Title       string
	Description string
}

// AnalysisService runs the two analysis pipelines and serves stored runs.
type AnalysisService interface {
	AnalyzeReport(ctx context.Context, input *AnalyzeReportInput) (*domain.Analysis, error)
	AnalyzePrescription(ctx context.Context, input *AnalyzePrescriptionInput) (*domain.Analysis, error)
	AnalyzeRecord(ctx context.Context, recordID uuid.UUID) (*domain.Analysis, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error)
	ListByRecord(ctx context.Context, recordID uuid.UUID) ([]domain.Analysis, error)
}

type analysisService struct {
	extractor  *extract.Extractor
	parser     *parser.Parser
	diagnoser  *diagnosis.Generator
	renderer   *report.Renderer
	names      *medicine.NameExtractor
	lookup     *medicine.Lookup
	insights   *medicine.InsightGenerator
	repo       port.AnalysisRepository
	recordRepo port.HealthRecordRepository
	storage    port.ObjectStorage
	s3cfg      *config.S3Config
	email      port.EmailSender
}

// NewAnalysisService creates a new AnalysisService implementation. storage
// may be nil or the bucket empty, which disables report archival.
func NewAnalysisService(
	extractor *extract.Extractor,
	reportParser *parser.Parser,
	diagnoser *diagnosis.Generator,
	renderer *report.Renderer,
	names *medicine.NameExtractor,
	lookup *medicine.Lookup,
	insights *medicine.InsightGenerator,
	repo port.AnalysisRepository,
	recordRepo port.HealthRecordRepository,
	storage port.ObjectStorage,
	s3cfg *config.S3Config,
	email port.EmailSender,
) AnalysisService {
	return &analysisService{
		extractor:  extractor,
		parser:     reportParser,
		diagnoser:  diagnoser,
		renderer:   renderer,
		names:      names,
		lookup:     lookup,
		insights:   insights,
		repo:       repo,
		recordRepo: recordRepo,
		storage:    storage,
		s3cfg:      s3cfg,
		email:      email,
	}
}

func (s *analysisService) AnalyzeReport(ctx context.Context, input *AnalyzeReportInput) (*domain.Analysis, error) {
	if len(input.Data) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	start := time.Now()
	log.Printf("analysisService.AnalyzeReport: analyzing %s (%d bytes)", input.FileName, len(input.Data))

	text := s.extractor.Extract(ctx, input.FileName, input.Data)
	parsed := s.parser.ParseReport(ctx, text)
	diag := s.diagnoser.Generate(ctx, parsed)
	rendered := s.renderer.Render(parsed, diag)

	parsedJSON, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("encoding parsed report: %w", err)
	}
	diagJSON, err := json.Marshal(diag)
	if err != nil {
		return nil, fmt.Errorf("encoding diagnosis: %w", err)
	}

	analysis := &domain.Analysis{
		ID:             uuid.New(),
		RecordID:       input.RecordID,
		Kind:           domain.AnalysisKindReport,
		Status:         domain.AnalysisStatusCompleted,
		ParsedReport:   parsedJSON,
		Diagnosis:      diagJSON,
		RenderedReport: rendered,
		DurationMS:     time.Since(start).Milliseconds(),
	}

	s.archiveReport(ctx, analysis)

	if err := s.repo.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("persisting analysis: %w", err)
	}

	s.notify(ctx, input.NotifyEmail, input.NotifyName, analysis)

	log.Printf("analysisService.AnalyzeReport: analysis %s completed in %dms", analysis.ID, analysis.DurationMS)
	return analysis, nil
}

func (s *analysisService) AnalyzePrescription(ctx context.Context, input *AnalyzePrescriptionInput) (*domain.Analysis, error) {
	start := time.Now()

	var names []string
	var err error
	switch {
	case len(input.Image) > 0:
		if !domain.ImageContentTypes[input.ContentType] {
			return nil, domain.ErrInvalidImage
		}
		names, err = s.names.ExtractFromImage(ctx, input.Image, input.ContentType)
	case input.Description != "":
		names, err = s.names.ExtractFromText(ctx, input.Title, input.Description)
	default:
		return nil, domain.ErrEmptyDocument
	}
	if err != nil {
		return nil, err
	}

	log.Printf("analysisService.AnalyzePrescription: extracted %d medicine names", len(names))

	insight, err := s.insights.Generate(ctx, names)
	if err != nil {
		failed := &domain.Analysis{
			ID:            uuid.New(),
			RecordID:      input.RecordID,
			Kind:          domain.AnalysisKindPrescription,
			Status:        domain.AnalysisStatusFailed,
			FailureReason: err.Error(),
			DurationMS:    time.Since(start).Milliseconds(),
		}
		if createErr := s.repo.Create(ctx, failed); createErr != nil {
			log.Printf("analysisService.AnalyzePrescription: failed to persist failed run: %v", createErr)
		}
		return nil, err
	}

	if len(names) == 1 {
		insight.MedicineInfo = []domain.MedicineInfo{s.lookup.FetchOne(ctx, names[0])}
	} else {
		insight.MedicineInfo = s.lookup.FetchAll(ctx, names)
	}

	insightJSON, err := json.Marshal(insight)
	if err != nil {
		return nil, fmt.Errorf("encoding insight: %w", err)
	}

	analysis := &domain.Analysis{
		ID:         uuid.New(),
		RecordID:   input.RecordID,
		Kind:       domain.AnalysisKindPrescription,
		Status:     domain.AnalysisStatusCompleted,
		Insight:    insightJSON,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err := s.repo.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("persisting analysis: %w", err)
	}

	log.Printf("analysisService.AnalyzePrescription: analysis %s completed in %dms", analysis.ID, analysis.DurationMS)
	return analysis, nil
}

// AnalyzeRecord re-runs the appropriate pipeline over a stored record's
// archived file.
func (s *analysisService) AnalyzeRecord(ctx context.Context, recordID uuid.UUID) (*domain.Analysis, error) {
	rec, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if rec.RecordType == domain.RecordTypePrescription {
		input := &AnalyzePrescriptionInput{
			RecordID:    &rec.ID,
			Title:       rec.Title,
			Description: rec.Description,
		}
		if rec.S3Key != "" && domain.ImageContentTypes[rec.ContentType] {
			data, err := s.download(ctx, rec)
			if err != nil {
				return nil, err
			}
			input.Image = data
			input.ContentType = rec.ContentType
		}
		return s.AnalyzePrescription(ctx, input)
	}

	data, err := s.download(ctx, rec)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeReport(ctx, &AnalyzeReportInput{
		RecordID: &rec.ID,
		FileName: rec.FileName,
		Data:     data,
	})
}

func (s *analysisService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *analysisService) ListByRecord(ctx context.Context, recordID uuid.UUID) ([]domain.Analysis, error) {
	return s.repo.ListByRecord(ctx, recordID)
}

func (s *analysisService) download(ctx context.Context, rec *domain.HealthRecord) ([]byte, error) {
	if s.storage == nil || rec.S3Key == "" {
		return nil, domain.ErrEmptyDocument
	}
	data, err := s.storage.Download(ctx, rec.S3Bucket, rec.S3Key)
	if err != nil {
		return nil, fmt.Errorf("downloading record file: %w", err)
	}
	return data, nil
}

// archiveReport uploads the rendered markdown to object storage. Best
// effort: archival failures are logged and the analysis proceeds.
func (s *analysisService) archiveReport(ctx context.Context, analysis *domain.Analysis) {
	if s.storage == nil || s.s3cfg == nil || s.s3cfg.Bucket == "" {
		return
	}

	key := fmt.Sprintf("reports/%s.md", analysis.ID)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader([]byte(analysis.RenderedReport)),
		ContentType: "text/markdown",
		Size:        int64(len(analysis.RenderedReport)),
	})
	if err != nil {
		log.Printf("analysisService.archiveReport: upload failed for %s: %v", analysis.ID, err)
		return
	}
	analysis.ReportS3Key = key
}

// notify emails the rendered report. Best effort.
func (s *analysisService) notify(ctx context.Context, toEmail, toName string, analysis *domain.Analysis) {
	if toEmail == "" || s.email == nil {
		return
	}
	subject := "Your medical report analysis is ready"
	if err := s.email.SendReportEmail(ctx, toEmail, toName, subject, analysis.RenderedReport); err != nil {
		log.Printf("analysisService.notify: email delivery failed for %s: %v", analysis.ID, err)
	}
}
