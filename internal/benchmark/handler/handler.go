// Package handler exposes HTTP endpoints for industry benchmark data.
package handler

import (
	"github.com/gin-gonic/gin"

	"nytro_assessment_backend/internal/benchmark/service"
	"nytro_assessment_backend/platform/httpkit"
)

// Handler handles HTTP requests for benchmarks.
type Handler struct {
	svc *service.Service
}

// New creates a new benchmark handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListIndustries returns the industries with benchmark data.
// GET /api/v1/benchmarks
func (h *Handler) ListIndustries(c *gin.Context) {
	result, err := h.svc.ListIndustries(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByIndustry returns all percentile rows for one industry.
// GET /api/v1/benchmarks/:industry
func (h *Handler) GetByIndustry(c *gin.Context) {
	result, err := h.svc.GetByIndustry(c.Request.Context(), c.Param("industry"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
