package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medscan/internal/service"
)

// PrescriptionHandler handles prescription analysis endpoints.
type PrescriptionHandler struct {
	analysisService service.AnalysisService
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(analysisService service.AnalysisService) *PrescriptionHandler {
	return &PrescriptionHandler{analysisService: analysisService}
}

type prescriptionTextRequest struct {
	RecordID    string `json:"record_id"`
	Title       string `json:"title"`
	Description string `json:"description" binding:"required"`
}

// Analyze handles POST /api/v1/prescriptions/analyze. Accepts either a
// multipart form with an "image" field, or a JSON body with the
// prescription title and description.
func (h *PrescriptionHandler) Analyze(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		h.analyzeImage(c)
		return
	}
	h.analyzeText(c)
}

func (h *PrescriptionHandler) analyzeImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_IMAGE", "image field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded image")
		return
	}

	input := &service.AnalyzePrescriptionInput{
		Image:       data,
		ContentType: header.Header.Get("Content-Type"),
	}
	if recordIDStr := c.PostForm("record_id"); recordIDStr != "" {
		recordID, parseErr := uuid.Parse(recordIDStr)
		if parseErr != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
			return
		}
		input.RecordID = &recordID
	}

	analysis, err := h.analysisService.AnalyzePrescription(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, analysis)
}

func (h *PrescriptionHandler) analyzeText(c *gin.Context) {
	var req prescriptionTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "description is required")
		return
	}

	input := &service.AnalyzePrescriptionInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.RecordID != "" {
		recordID, err := uuid.Parse(req.RecordID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
			return
		}
		input.RecordID = &recordID
	}

	analysis, err := h.analysisService.AnalyzePrescription(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, analysis)
}
