package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/service"
	"github.com/noah-isme/internship-api/pkg/response"
)

type placementService interface {
	List(ctx context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.PlacementDetail, error)
	Create(ctx context.Context, req service.CreatePlacementRequest) (*models.PlacementDetail, error)
	Update(ctx context.Context, id int64, req service.UpdatePlacementRequest) (*models.PlacementDetail, error)
	Delete(ctx context.Context, id int64) error
}

// PlacementHandler exposes placement endpoints.
type PlacementHandler struct {
	placements placementService
}

// NewPlacementHandler constructs PlacementHandler.
func NewPlacementHandler(placements placementService) *PlacementHandler {
	return &PlacementHandler{placements: placements}
}

// List godoc
// @Summary List placements
// @Tags Placements
// @Produce json
// @Security BearerAuth
// @Param employer_id query int false "Filter by employer"
// @Param mentor_id query int false "Filter by mentor"
// @Param student_id query int false "Filter by linked student"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /placements [get]
func (h *PlacementHandler) List(c *gin.Context) {
	var (
		filter models.PlacementFilter
		ok     bool
	)
	if filter.EmployerID, ok = queryID(c, "employer_id"); !ok {
		return
	}
	if filter.MentorID, ok = queryID(c, "mentor_id"); !ok {
		return
	}
	if filter.StudentID, ok = queryID(c, "student_id"); !ok {
		return
	}
	filter.Status = strings.TrimSpace(c.Query("status"))
	filter.Page, filter.PageSize = pageParams(c)

	placements, pagination, err := h.placements.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, placements, pagination)
}

// Get godoc
// @Summary Get placement detail
// @Tags Placements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Placement ID"
// @Success 200 {object} response.Envelope
// @Router /placements/{id} [get]
func (h *PlacementHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	placement, err := h.placements.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, placement, nil)
}

// Create godoc
// @Summary Create placement
// @Tags Placements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreatePlacementRequest true "Placement payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /placements [post]
func (h *PlacementHandler) Create(c *gin.Context) {
	var req service.CreatePlacementRequest
	if !bindJSON(c, &req) {
		return
	}
	placement, err := h.placements.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, placement)
}

// Update godoc
// @Summary Update placement
// @Description Partial update. Supplying student_ids replaces the linked students.
// @Tags Placements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Placement ID"
// @Param payload body service.UpdatePlacementRequest true "Placement payload"
// @Success 200 {object} response.Envelope
// @Router /placements/{id} [patch]
func (h *PlacementHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdatePlacementRequest
	if !bindJSON(c, &req) {
		return
	}
	placement, err := h.placements.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, placement, nil)
}

// Delete godoc
// @Summary Delete placement
// @Tags Placements
// @Security BearerAuth
// @Param id path int true "Placement ID"
// @Success 204
// @Router /placements/{id} [delete]
func (h *PlacementHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.placements.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
