// Package handler exposes the assessment HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nytro_assessment_backend/internal/assessment/service"
	"nytro_assessment_backend/internal/assessment/transport"
	"nytro_assessment_backend/platform/httpkit"
	"nytro_assessment_backend/platform/validator"
)

// Handler handles HTTP requests for assessments.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid assessment ID"
)

// New creates a new assessment handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Submit stores a questionnaire submission.
// POST /api/v1/assessments
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Score runs the engine and narrative over a submitted assessment.
// POST /api/v1/assessments/:id/score
func (h *Handler) Score(c *gin.Context) {
	id, ok := h.assessmentID(c)
	if !ok {
		return
	}

	result, err := h.svc.Score(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Results returns the stored scoring output.
// GET /api/v1/assessments/:id/results
func (h *Handler) Results(c *gin.Context) {
	id, ok := h.assessmentID(c)
	if !ok {
		return
	}

	result, err := h.svc.Results(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ReportPDF streams the report PDF.
// GET /api/v1/assessments/:id/report.pdf
func (h *Handler) ReportPDF(c *gin.Context) {
	id, ok := h.assessmentID(c)
	if !ok {
		return
	}

	pdfBytes, err := h.svc.ReportPDF(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="leadgen-assessment-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// EmailReport sends the report email to the respondent.
// POST /api/v1/assessments/:id/email-report
func (h *Handler) EmailReport(c *gin.Context) {
	id, ok := h.assessmentID(c)
	if !ok {
		return
	}

	err := h.svc.EmailReport(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.EmailReportResponse{Status: "sent"})
}

// List returns the paginated admin list of assessments.
// GET /api/v1/admin/assessments
func (h *Handler) List(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	var req transport.ListAssessmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) assessmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
