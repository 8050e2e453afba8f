package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type evaluationRepository interface {
	List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, int, error)
	FindByID(ctx context.Context, id int64) (*models.Evaluation, error)
	Create(ctx context.Context, evaluation *models.Evaluation) error
	Update(ctx context.Context, evaluation *models.Evaluation) error
	Delete(ctx context.Context, id int64) error
}

// CreateEvaluationRequest holds payload for creating evaluations. Exactly one
// of the evaluator ids must be set.
type CreateEvaluationRequest struct {
	Feedback            string `json:"feedback"`
	Rating              int    `json:"rating"`
	PlacementID         int64  `json:"placement_id" validate:"required,gt=0"`
	SubjectID           int64  `json:"subject_id" validate:"required,gt=0"`
	MentorEvaluatorID   *int64 `json:"mentor_evaluator_id" validate:"omitnil,gt=0"`
	EmployerEvaluatorID *int64 `json:"employer_evaluator_id" validate:"omitnil,gt=0"`
	StudentEvaluatorID  *int64 `json:"student_evaluator_id" validate:"omitnil,gt=0"`
}

// UpdateEvaluationRequest changes feedback and rating only.
type UpdateEvaluationRequest struct {
	Feedback *string `json:"feedback"`
	Rating   *int    `json:"rating"`
}

// EvaluationService handles evaluation use-cases.
type EvaluationService struct {
	repo      evaluationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(repo evaluationRepository, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{repo: repo, validator: validate, logger: logger}
}

// List returns evaluations and pagination metadata.
func (s *EvaluationService) List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, *models.Pagination, error) {
	evaluations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list evaluations")
	}
	return evaluations, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a single evaluation.
func (s *EvaluationService) Get(ctx context.Context, id int64) (*models.Evaluation, error) {
	evaluation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "evaluation")
	}
	return evaluation, nil
}

// Create records an evaluation. The evaluator is resolved before anything is written.
func (s *EvaluationService) Create(ctx context.Context, req CreateEvaluationRequest) (*models.Evaluation, error) {
	evaluator, err := models.EvaluatorFromIDs(req.MentorEvaluatorID, req.EmployerEvaluatorID, req.StudentEvaluatorID)
	if err != nil {
		return nil, evaluatorError(err)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid evaluation payload")
	}
	evaluation := &models.Evaluation{
		Feedback:    req.Feedback,
		Rating:      req.Rating,
		PlacementID: req.PlacementID,
		SubjectID:   req.SubjectID,
		Evaluator:   evaluator,
	}
	if err := s.repo.Create(ctx, evaluation); err != nil {
		return nil, writeError(err, "evaluation", "create")
	}
	s.logger.Info("evaluation recorded",
		zap.Int64("evaluation_id", evaluation.ID),
		zap.String("evaluator_type", string(evaluator.Kind)),
	)
	return evaluation, nil
}

// Update changes feedback and rating. Evaluator, subject, placement and
// created_at never change.
func (s *EvaluationService) Update(ctx context.Context, id int64, req UpdateEvaluationRequest) (*models.Evaluation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid evaluation payload")
	}
	evaluation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "evaluation")
	}
	if req.Feedback != nil {
		evaluation.Feedback = *req.Feedback
	}
	if req.Rating != nil {
		evaluation.Rating = *req.Rating
	}
	if err := s.repo.Update(ctx, evaluation); err != nil {
		return nil, writeError(err, "evaluation", "update")
	}
	return evaluation, nil
}

// Delete removes an evaluation.
func (s *EvaluationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "evaluation")
	}
	return nil
}

func evaluatorError(err error) error {
	switch {
	case errors.Is(err, models.ErrNoEvaluator):
		return appErrors.Validation(err, "at least one evaluator id must be provided")
	case errors.Is(err, models.ErrMultipleEvaluators):
		return appErrors.Validation(err, "only one type of evaluator can be provided at a time")
	default:
		return appErrors.Validation(err, "invalid evaluator")
	}
}
