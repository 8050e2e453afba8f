package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// CreateStudentRequest holds payload for registering students.
type CreateStudentRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Major    string `json:"major" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateStudentRequest holds a partial student update. Nil fields are left unchanged.
type UpdateStudentRequest struct {
	FullName *string `json:"full_name" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Major    *string `json:"major" validate:"omitnil,min=1"`
	Password *string `json:"password" validate:"omitnil,min=1"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	hasher    passwordHasher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, hasher passwordHasher, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, hasher: hasher, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	return students, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	return student, nil
}

// Create registers a new student. Email must be unique among students only.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
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
	student := &models.Student{
		FullName:     req.FullName,
		Email:        req.Email,
		Major:        req.Major,
		PasswordHash: digest,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, writeError(err, "student", "create")
	}
	s.logger.Info("student registered", zap.Int64("student_id", student.ID))
	return student, nil
}

// Update applies a partial update, re-hashing the password when supplied.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != student.Email {
			exists, err := s.repo.ExistsByEmail(ctx, email, id)
			if err != nil {
				return nil, appErrors.Internal(err, "failed to validate email")
			}
			if exists {
				return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
			}
		}
		student.Email = email
	}
	if req.FullName != nil {
		student.FullName = *req.FullName
	}
	if req.Major != nil {
		student.Major = *req.Major
	}
	if req.Password != nil {
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to hash password")
		}
		student.PasswordHash = digest
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, writeError(err, "student", "update")
	}
	return student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "student")
	}
	return nil
}
