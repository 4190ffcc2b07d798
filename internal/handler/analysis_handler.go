package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medscan/internal/csvexport"
	"medscan/internal/service"
)

// AnalysisHandler handles medical report analysis endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// Analyze handles POST /api/v1/analyses. Expects a multipart form with a
// "file" field and optional record_id, notify_email and notify_name fields.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	input := &service.AnalyzeReportInput{
		FileName:    header.Filename,
		Data:        data,
		NotifyEmail: c.PostForm("notify_email"),
		NotifyName:  c.PostForm("notify_name"),
	}
	if recordIDStr := c.PostForm("record_id"); recordIDStr != "" {
		recordID, parseErr := uuid.Parse(recordIDStr)
		if parseErr != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
			return
		}
		input.RecordID = &recordID
	}

	analysis, err := h.analysisService.AnalyzeReport(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, analysis)
}

// GetByID handles GET /api/v1/analyses/:id
func (h *AnalysisHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	analysis, err := h.analysisService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, analysis)
}

// ExportCSV handles GET /api/v1/analyses/:id/export. Streams the analysis'
// test results as a CSV download.
func (h *AnalysisHandler) ExportCSV(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	analysis, err := h.analysisService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("analysis_" + analysis.ID.String())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteAnalysis(analysis); err != nil {
		RespondError(c, http.StatusInternalServerError, "EXPORT_FAILED", "could not export analysis")
		return
	}
	w.Flush()
}

// ListByRecord handles GET /api/v1/records/:id/analyses
func (h *AnalysisHandler) ListByRecord(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	analyses, err := h.analysisService.ListByRecord(c.Request.Context(), recordID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, analyses)
}

// AnalyzeRecord handles POST /api/v1/records/:id/analyses. Re-runs the
// pipeline for a stored record's archived file.
func (h *AnalysisHandler) AnalyzeRecord(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	analysis, err := h.analysisService.AnalyzeRecord(c.Request.Context(), recordID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, analysis)
}
