package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"medscan/internal/config"
	"medscan/internal/domain"
	"medscan/internal/port"
)

// CreateRecordInput is the DTO for health record creation requests.
type CreateRecordInput struct {
	RecordType  domain.RecordType
	Title       string
	Description string
	FileName    string
	ContentType string
	Data        []byte
}

// RecordService manages stored health records.
type RecordService interface {
	Create(ctx context.Context, input *CreateRecordInput) (*domain.HealthRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.HealthRecord, error)
	List(ctx context.Context, limit, offset int) ([]domain.HealthRecord, int, error)
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
}

type recordService struct {
	repo    port.HealthRecordRepository
	storage port.ObjectStorage
	s3cfg   *config.S3Config
}

// NewRecordService creates a new RecordService implementation. storage may
// be nil or the bucket empty, in which case records keep only metadata.
func NewRecordService(repo port.HealthRecordRepository, storage port.ObjectStorage, s3cfg *config.S3Config) RecordService {
	return &recordService{repo: repo, storage: storage, s3cfg: s3cfg}
}

func (s *recordService) Create(ctx context.Context, input *CreateRecordInput) (*domain.HealthRecord, error) {
	if input.FileName != "" {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
		if _, ok := domain.AllowedExtensions[ext]; !ok {
			return nil, domain.ErrUnsupportedFileType
		}
	}
	maxBytes := s.s3cfg.MaxFileSizeMB * 1024 * 1024
	if int64(len(input.Data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	rec := &domain.HealthRecord{
		ID:          uuid.New(),
		RecordType:  input.RecordType,
		Title:       input.Title,
		Description: input.Description,
		FileName:    input.FileName,
		ContentType: input.ContentType,
		FileSize:    int64(len(input.Data)),
	}

	if s.storage != nil && s.s3cfg.Bucket != "" && len(input.Data) > 0 {
		key := fmt.Sprintf("records/%s/%s", rec.ID, input.FileName)
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(input.Data),
			ContentType: input.ContentType,
			Size:        rec.FileSize,
		})
		if err != nil {
			log.Printf("recordService.Create: S3 upload failed for %s: %v", rec.ID, err)
			return nil, domain.ErrUploadFailed
		}
		rec.S3Bucket = s.s3cfg.Bucket
		rec.S3Key = key
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating health record: %w", err)
	}

	log.Printf("recordService.Create: created record %s (%s, %d bytes)", rec.ID, rec.RecordType, rec.FileSize)
	return rec, nil
}

func (s *recordService) GetByID(ctx context.Context, id uuid.UUID) (*domain.HealthRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *recordService) List(ctx context.Context, limit, offset int) ([]domain.HealthRecord, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *recordService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.storage == nil || rec.S3Key == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, rec.S3Bucket, rec.S3Key, s.s3cfg.PresignExpiry)
}
