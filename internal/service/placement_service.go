package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type placementRepository interface {
	List(ctx context.Context, filter models.PlacementFilter) ([]models.Placement, int, error)
	FindByID(ctx context.Context, id int64) (*models.Placement, error)
	StudentIDs(ctx context.Context, placementIDs ...int64) (map[int64][]int64, error)
	Create(ctx context.Context, placement *models.Placement, studentIDs []int64) error
	Update(ctx context.Context, placement *models.Placement, studentIDs *[]int64) error
	Delete(ctx context.Context, id int64) error
}

// CreatePlacementRequest holds payload for creating placements.
type CreatePlacementRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	StartDate   models.Date `json:"start_date"`
	EndDate     models.Date `json:"end_date"`
	Status      string      `json:"status" validate:"required"`
	EmployerID  int64       `json:"employer_id" validate:"required,gt=0"`
	MentorID    int64       `json:"mentor_id" validate:"required,gt=0"`
	StudentIDs  []int64     `json:"student_ids" validate:"dive,gt=0"`
}

// UpdatePlacementRequest holds a partial placement update. A non-nil
// StudentIDs replaces the whole linked student set.
type UpdatePlacementRequest struct {
	Title       *string      `json:"title" validate:"omitnil,min=1"`
	Description *string      `json:"description"`
	StartDate   *models.Date `json:"start_date"`
	EndDate     *models.Date `json:"end_date"`
	Status      *string      `json:"status" validate:"omitnil,min=1"`
	EmployerID  *int64       `json:"employer_id" validate:"omitnil,gt=0"`
	MentorID    *int64       `json:"mentor_id" validate:"omitnil,gt=0"`
	StudentIDs  *[]int64     `json:"student_ids" validate:"omitnil,dive,gt=0"`
}

// PlacementService handles placement use-cases.
type PlacementService struct {
	repo      placementRepository
	students  studentIDLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlacementService constructs the placement service.
func NewPlacementService(repo placementRepository, students studentIDLookup, validate *validator.Validate, logger *zap.Logger) *PlacementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns placements with their student ids.
func (s *PlacementService) List(ctx context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, *models.Pagination, error) {
	placements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list placements")
	}
	ids := make([]int64, 0, len(placements))
	for _, p := range placements {
		ids = append(ids, p.ID)
	}
	links, err := s.repo.StudentIDs(ctx, ids...)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list placement students")
	}
	details := make([]models.PlacementDetail, 0, len(placements))
	for _, p := range placements {
		details = append(details, detail(p, links[p.ID]))
	}
	return details, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a placement with its student ids.
func (s *PlacementService) Get(ctx context.Context, id int64) (*models.PlacementDetail, error) {
	placement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "placement")
	}
	links, err := s.repo.StudentIDs(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list placement students")
	}
	d := detail(*placement, links[id])
	return &d, nil
}

// Create stores a placement together with its student links.
func (s *PlacementService) Create(ctx context.Context, req CreatePlacementRequest) (*models.PlacementDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid placement payload")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date and end_date are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	studentIDs := dedupe(req.StudentIDs)
	if err := s.ensureStudents(ctx, studentIDs); err != nil {
		return nil, err
	}
	placement := models.Placement{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		EmployerID:  req.EmployerID,
		MentorID:    req.MentorID,
	}
	if err := s.repo.Create(ctx, &placement, studentIDs); err != nil {
		return nil, writeError(err, "placement", "create")
	}
	s.logger.Info("placement created", zap.Int64("placement_id", placement.ID), zap.Int("students", len(studentIDs)))
	d := detail(placement, studentIDs)
	return &d, nil
}

// Update applies a partial update. When StudentIDs is supplied the previous
// links are replaced in the same transaction.
func (s *PlacementService) Update(ctx context.Context, id int64, req UpdatePlacementRequest) (*models.PlacementDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid placement payload")
	}
	placement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "placement")
	}
	if req.Title != nil {
		placement.Title = *req.Title
	}
	if req.Description != nil {
		placement.Description = *req.Description
	}
	if req.StartDate != nil {
		placement.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		placement.EndDate = *req.EndDate
	}
	if req.Status != nil {
		placement.Status = *req.Status
	}
	if req.EmployerID != nil {
		placement.EmployerID = *req.EmployerID
	}
	if req.MentorID != nil {
		placement.MentorID = *req.MentorID
	}
	if placement.EndDate.Before(placement.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}

	var studentIDs *[]int64
	if req.StudentIDs != nil {
		ids := dedupe(*req.StudentIDs)
		if err := s.ensureStudents(ctx, ids); err != nil {
			return nil, err
		}
		studentIDs = &ids
	}
	if err := s.repo.Update(ctx, placement, studentIDs); err != nil {
		return nil, writeError(err, "placement", "update")
	}

	if studentIDs != nil {
		d := detail(*placement, *studentIDs)
		return &d, nil
	}
	links, err := s.repo.StudentIDs(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list placement students")
	}
	d := detail(*placement, links[id])
	return &d, nil
}

// Delete removes a placement and its student links atomically. Placements
// with evaluations cannot be deleted.
func (s *PlacementService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "placement")
	}
	return nil
}

func (s *PlacementService) ensureStudents(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.students.ExistingIDs(ctx, ids)
	if err != nil {
		return appErrors.Internal(err, "failed to validate students")
	}
	if missing, ok := missingStudent(ids, found); ok {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student with id %d not found", missing))
	}
	return nil
}

func detail(p models.Placement, studentIDs []int64) models.PlacementDetail {
	if studentIDs == nil {
		studentIDs = []int64{}
	}
	return models.PlacementDetail{Placement: p, StudentIDs: studentIDs}
}

