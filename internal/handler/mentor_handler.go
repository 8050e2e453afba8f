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

type mentorService interface {
	List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Mentor, error)
	Create(ctx context.Context, req service.CreateMentorRequest) (*models.Mentor, error)
	Update(ctx context.Context, id int64, req service.UpdateMentorRequest) (*models.Mentor, error)
	Delete(ctx context.Context, id int64) error
	Students(ctx context.Context, mentorID int64) (*models.MentorStudents, error)
	SetStudents(ctx context.Context, mentorID int64, req service.SetMentorStudentsRequest) (*models.MentorStudents, error)
}

// MentorHandler exposes mentor endpoints.
type MentorHandler struct {
	mentors mentorService
}

// NewMentorHandler constructs MentorHandler.
func NewMentorHandler(mentors mentorService) *MentorHandler {
	return &MentorHandler{mentors: mentors}
}

// List godoc
// @Summary List mentors
// @Tags Mentors
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name or email"
// @Param field query string false "Filter by field"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort column"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorHandler) List(c *gin.Context) {
	var filter models.MentorFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Field = strings.TrimSpace(c.Query("field"))
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	mentors, pagination, err := h.mentors.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentors, pagination)
}

// Get godoc
// @Summary Get mentor detail
// @Tags Mentors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/{id} [get]
func (h *MentorHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	mentor, err := h.mentors.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// Create godoc
// @Summary Register mentor
// @Tags Mentors
// @Accept json
// @Produce json
// @Param payload body service.CreateMentorRequest true "Mentor payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mentors [post]
func (h *MentorHandler) Create(c *gin.Context) {
	var req service.CreateMentorRequest
	if !bindJSON(c, &req) {
		return
	}
	mentor, err := h.mentors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mentor)
}

// Update godoc
// @Summary Update mentor
// @Tags Mentors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mentor ID"
// @Param payload body service.UpdateMentorRequest true "Mentor payload"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id} [patch]
func (h *MentorHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateMentorRequest
	if !bindJSON(c, &req) {
		return
	}
	mentor, err := h.mentors.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// Delete godoc
// @Summary Delete mentor
// @Tags Mentors
// @Security BearerAuth
// @Param id path int true "Mentor ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /mentors/{id} [delete]
func (h *MentorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.mentors.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Students godoc
// @Summary List the mentor's students
// @Tags Mentors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/students [get]
func (h *MentorHandler) Students(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	links, err := h.mentors.Students(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links, nil)
}

// SetStudents godoc
// @Summary Replace the mentor's students
// @Tags Mentors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mentor ID"
// @Param payload body service.SetMentorStudentsRequest true "Student ids"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/{id}/students [put]
func (h *MentorHandler) SetStudents(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.SetMentorStudentsRequest
	if !bindJSON(c, &req) {
		return
	}
	links, err := h.mentors.SetStudents(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links, nil)
}
