package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medscan/internal/domain"
	"medscan/internal/service"
)

// RecordHandler handles health record endpoints.
type RecordHandler struct {
	recordService service.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordService service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// Create handles POST /api/v1/records. Expects a multipart form with
// record_type, title, description and an optional "file" field.
func (h *RecordHandler) Create(c *gin.Context) {
	recordType := domain.RecordType(c.PostForm("record_type"))
	switch recordType {
	case domain.RecordTypeLabReport, domain.RecordTypePrescription, domain.RecordTypeOther:
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_RECORD_TYPE", "record_type must be lab_report, prescription or other")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_TITLE", "title field is required")
		return
	}

	input := &service.CreateRecordInput{
		RecordType:  recordType,
		Title:       title,
		Description: c.PostForm("description"),
	}

	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer func() { _ = file.Close() }()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
			return
		}
		input.FileName = header.Filename
		input.ContentType = header.Header.Get("Content-Type")
		input.Data = data
	}

	rec, err := h.recordService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, rec)
}

// List handles GET /api/v1/records
func (h *RecordHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	recs, total, err := h.recordService.List(c.Request.Context(), limit, offset)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, recs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/records/:id. Includes a presigned download
// URL when the record has an archived file.
func (h *RecordHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	rec, err := h.recordService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	if rec.S3Key != "" {
		downloadURL, urlErr := h.recordService.GetDownloadURL(c.Request.Context(), id)
		if urlErr == nil {
			RespondOK(c, gin.H{"record": rec, "download_url": downloadURL})
			return
		}
	}
	RespondOK(c, rec)
}
