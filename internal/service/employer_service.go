package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type employerRepository interface {
	List(ctx context.Context, filter models.EmployerFilter) ([]models.Employer, int, error)
	FindByID(ctx context.Context, id int64) (*models.Employer, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, employer *models.Employer) error
	Update(ctx context.Context, employer *models.Employer) error
	Delete(ctx context.Context, id int64) error
}

// CreateEmployerRequest holds payload for registering employers.
type CreateEmployerRequest struct {
	CompanyName   string `json:"company_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	ContactPerson string `json:"contact_person" validate:"required"`
	Industry      string `json:"industry" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

// UpdateEmployerRequest holds a partial employer update. Nil fields are left unchanged.
type UpdateEmployerRequest struct {
	CompanyName   *string `json:"company_name" validate:"omitnil,min=1"`
	Email         *string `json:"email" validate:"omitnil,email"`
	ContactPerson *string `json:"contact_person" validate:"omitnil,min=1"`
	Industry      *string `json:"industry" validate:"omitnil,min=1"`
	Password      *string `json:"password" validate:"omitnil,min=1"`
}

// EmployerService handles employer use-cases.
type EmployerService struct {
	repo      employerRepository
	hasher    passwordHasher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployerService constructs the employer service.
func NewEmployerService(repo employerRepository, hasher passwordHasher, validate *validator.Validate, logger *zap.Logger) *EmployerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployerService{repo: repo, hasher: hasher, validator: validate, logger: logger}
}

// List returns employers and pagination metadata.
func (s *EmployerService) List(ctx context.Context, filter models.EmployerFilter) ([]models.Employer, *models.Pagination, error) {
	employers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list employers")
	}
	return employers, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a single employer.
func (s *EmployerService) Get(ctx context.Context, id int64) (*models.Employer, error) {
	employer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "employer")
	}
	return employer, nil
}

// Create registers a new employer.
func (s *EmployerService) Create(ctx context.Context, req CreateEmployerRequest) (*models.Employer, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid employer payload")
	}
	exists, err := s.repo.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to validate email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}
	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}
	employer := &models.Employer{
		CompanyName:   req.CompanyName,
		Email:         req.Email,
		ContactPerson: req.ContactPerson,
		Industry:      req.Industry,
		PasswordHash:  digest,
	}
	if err := s.repo.Create(ctx, employer); err != nil {
		return nil, writeError(err, "employer", "create")
	}
	s.logger.Info("employer registered", zap.Int64("employer_id", employer.ID))
	return employer, nil
}

// Update applies a partial update, re-hashing the password when supplied.
func (s *EmployerService) Update(ctx context.Context, id int64, req UpdateEmployerRequest) (*models.Employer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid employer payload")
	}
	employer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "employer")
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != employer.Email {
			exists, err := s.repo.ExistsByEmail(ctx, email, id)
			if err != nil {
				return nil, appErrors.Internal(err, "failed to validate email")
			}
			if exists {
				return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
			}
		}
		employer.Email = email
	}
	if req.CompanyName != nil {
		employer.CompanyName = *req.CompanyName
	}
	if req.ContactPerson != nil {
		employer.ContactPerson = *req.ContactPerson
	}
	if req.Industry != nil {
		employer.Industry = *req.Industry
	}
	if req.Password != nil {
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to hash password")
		}
		employer.PasswordHash = digest
	}
	if err := s.repo.Update(ctx, employer); err != nil {
		return nil, writeError(err, "employer", "update")
	}
	return employer, nil
}

// Delete removes an employer. Employers owning placements cannot be deleted.
func (s *EmployerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "employer")
	}
	return nil
}
