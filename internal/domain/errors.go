package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrEmptyDocument       = errors.New("document payload is empty")
	ErrNoMedicinesFound    = errors.New("no medicine names found in the prescription")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrInvalidImage        = errors.New("invalid image format")
)
