package handlers

import (
	"github.com/aniwoo/aniwoo-api/internal/middleware"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/aniwoo/aniwoo-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type HealthCheckHandler struct {
	checks HealthCheckServiceInterface
}

func NewHealthCheckHandler(checks HealthCheckServiceInterface) *HealthCheckHandler {
	return &HealthCheckHandler{checks: checks}
}

func (h *HealthCheckHandler) Analyze(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.AnalyzeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.FileName == "" {
		c.BadRequest("file_name is required")
		return
	}

	check, err := h.checks.Analyze(c.Request.Context(), userID, req.FileName)
	if err != nil {
		c.InternalServerError("could not analyze image")
		return
	}

	_ = c.JSON(200, healthCheckResponse(check))
}

func (h *HealthCheckHandler) History(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	checks, err := h.checks.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.InternalServerError("could not fetch history")
		return
	}

	out := make([]dto.HealthCheckResponse, 0, len(checks))
	for i := range checks {
		out = append(out, healthCheckResponse(&checks[i]))
	}
	_ = c.JSON(200, out)
}

func healthCheckResponse(check *models.HealthCheck) dto.HealthCheckResponse {
	return dto.HealthCheckResponse{
		ID:              check.ID.String(),
		FileName:        check.FileName,
		Status:          check.Status,
		Confidence:      check.Confidence,
		Findings:        check.Findings,
		Recommendations: check.Recommendations,
		CreatedAt:       check.CreatedAt,
	}
}
