package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/service"
	"github.com/noah-isme/internship-api/pkg/response"
)

type reportService interface {
	PlacementsPerEmployer(ctx context.Context) ([]models.EmployerPlacementCount, error)
	ExportPlacementsPerEmployer(ctx context.Context, format models.ReportFormat) (*models.ReportFile, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// PlacementsPerEmployer godoc
// @Summary Placements per employer
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "json (default), csv or pdf"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/placements_per_employer [get]
// @Router /reports/placements-per-employer [get]
func (h *ReportHandler) PlacementsPerEmployer(c *gin.Context) {
	format, err := service.ParseReportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if format == models.ReportFormatJSON {
		rows, err := h.reports.PlacementsPerEmployer(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, rows, nil)
		return
	}

	file, err := h.reports.ExportPlacementsPerEmployer(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Content)
}
