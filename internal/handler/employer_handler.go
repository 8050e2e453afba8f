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

type employerService interface {
	List(ctx context.Context, filter models.EmployerFilter) ([]models.Employer, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Employer, error)
	Create(ctx context.Context, req service.CreateEmployerRequest) (*models.Employer, error)
	Update(ctx context.Context, id int64, req service.UpdateEmployerRequest) (*models.Employer, error)
	Delete(ctx context.Context, id int64) error
}

// EmployerHandler exposes employer endpoints.
type EmployerHandler struct {
	employers employerService
}

// NewEmployerHandler constructs EmployerHandler.
func NewEmployerHandler(employers employerService) *EmployerHandler {
	return &EmployerHandler{employers: employers}
}

// List godoc
// @Summary List employers
// @Tags Employers
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by company, contact or email"
// @Param industry query string false "Filter by industry"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /employers [get]
func (h *EmployerHandler) List(c *gin.Context) {
	filter := models.EmployerFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		Industry:  strings.TrimSpace(c.Query("industry")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	filter.Page, filter.PageSize = pageParams(c)

	employers, pagination, err := h.employers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employers, pagination)
}

// Get godoc
// @Summary Get employer detail
// @Tags Employers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employer ID"
// @Success 200 {object} response.Envelope
// @Router /employers/{id} [get]
func (h *EmployerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	employer, err := h.employers.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employer, nil)
}

// Create godoc
// @Summary Register employer
// @Tags Employers
// @Accept json
// @Produce json
// @Param payload body service.CreateEmployerRequest true "Employer payload"
// @Success 201 {object} response.Envelope
// @Router /employers [post]
func (h *EmployerHandler) Create(c *gin.Context) {
	var req service.CreateEmployerRequest
	if !bindJSON(c, &req) {
		return
	}
	employer, err := h.employers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, employer)
}

// Update godoc
// @Summary Update employer
// @Tags Employers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employer ID"
// @Param payload body service.UpdateEmployerRequest true "Employer payload"
// @Success 200 {object} response.Envelope
// @Router /employers/{id} [patch]
func (h *EmployerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateEmployerRequest
	if !bindJSON(c, &req) {
		return
	}
	employer, err := h.employers.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employer, nil)
}

// Delete godoc
// @Summary Delete employer
// @Tags Employers
// @Security BearerAuth
// @Param id path int true "Employer ID"
// @Success 204
// @Router /employers/{id} [delete]
func (h *EmployerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.employers.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
