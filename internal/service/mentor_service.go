package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type mentorRepository interface {
	List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error)
	FindByID(ctx context.Context, id int64) (*models.Mentor, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, mentor *models.Mentor) error
	Update(ctx context.Context, mentor *models.Mentor) error
	Delete(ctx context.Context, id int64) error
	StudentIDs(ctx context.Context, mentorID int64) ([]int64, error)
	ReplaceStudents(ctx context.Context, mentorID int64, studentIDs []int64) error
}

type studentIDLookup interface {
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// CreateMentorRequest holds payload for registering mentors.
type CreateMentorRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Field    string `json:"field" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateMentorRequest holds a partial mentor update. Nil fields are left unchanged.
type UpdateMentorRequest struct {
	FullName *string `json:"full_name" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Field    *string `json:"field" validate:"omitnil,min=1"`
	Password *string `json:"password" validate:"omitnil,min=1"`
}

// SetMentorStudentsRequest replaces the set of students linked to a mentor.
type SetMentorStudentsRequest struct {
	StudentIDs []int64 `json:"student_ids" validate:"required,dive,gt=0"`
}

// MentorService handles mentor use-cases.
type MentorService struct {
	repo      mentorRepository
	students  studentIDLookup
	hasher    passwordHasher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMentorService constructs the mentor service.
func NewMentorService(repo mentorRepository, students studentIDLookup, hasher passwordHasher, validate *validator.Validate, logger *zap.Logger) *MentorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorService{repo: repo, students: students, hasher: hasher, validator: validate, logger: logger}
}

// List returns mentors and pagination metadata.
func (s *MentorService) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, *models.Pagination, error) {
	mentors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list mentors")
	}
	return mentors, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a single mentor.
func (s *MentorService) Get(ctx context.Context, id int64) (*models.Mentor, error) {
	mentor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "mentor")
	}
	return mentor, nil
}

// Create registers a new mentor. Email must be unique among mentors only.
func (s *MentorService) Create(ctx context.Context, req CreateMentorRequest) (*models.Mentor, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid mentor payload")
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
	mentor := &models.Mentor{
		FullName:     req.FullName,
		Email:        req.Email,
		Field:        req.Field,
		PasswordHash: digest,
	}
	if err := s.repo.Create(ctx, mentor); err != nil {
		return nil, writeError(err, "mentor", "create")
	}
	s.logger.Info("mentor registered", zap.Int64("mentor_id", mentor.ID))
	return mentor, nil
}

// Update applies a partial update, re-hashing the password when supplied.
func (s *MentorService) Update(ctx context.Context, id int64, req UpdateMentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid mentor payload")
	}
	mentor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "mentor")
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != mentor.Email {
			exists, err := s.repo.ExistsByEmail(ctx, email, id)
			if err != nil {
				return nil, appErrors.Internal(err, "failed to validate email")
			}
			if exists {
				return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
			}
		}
		mentor.Email = email
	}
	if req.FullName != nil {
		mentor.FullName = *req.FullName
	}
	if req.Field != nil {
		mentor.Field = *req.Field
	}
	if req.Password != nil {
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to hash password")
		}
		mentor.PasswordHash = digest
	}
	if err := s.repo.Update(ctx, mentor); err != nil {
		return nil, writeError(err, "mentor", "update")
	}
	return mentor, nil
}

// Delete removes a mentor and its student links. Mentors still assigned to
// placements cannot be deleted.
func (s *MentorService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "mentor")
	}
	return nil
}

// Students lists the ids of students linked to the mentor.
func (s *MentorService) Students(ctx context.Context, mentorID int64) (*models.MentorStudents, error) {
	if _, err := s.repo.FindByID(ctx, mentorID); err != nil {
		return nil, lookupError(err, "mentor")
	}
	ids, err := s.repo.StudentIDs(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list mentor students")
	}
	return &models.MentorStudents{MentorID: mentorID, StudentIDs: ids}, nil
}

// SetStudents atomically replaces the mentor's linked students.
func (s *MentorService) SetStudents(ctx context.Context, mentorID int64, req SetMentorStudentsRequest) (*models.MentorStudents, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student list")
	}
	if _, err := s.repo.FindByID(ctx, mentorID); err != nil {
		return nil, lookupError(err, "mentor")
	}
	ids := dedupe(req.StudentIDs)
	found, err := s.students.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to validate students")
	}
	if missing, ok := missingStudent(ids, found); ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student with id %d not found", missing))
	}
	if err := s.repo.ReplaceStudents(ctx, mentorID, ids); err != nil {
		return nil, writeError(err, "mentor students", "update")
	}
	return &models.MentorStudents{MentorID: mentorID, StudentIDs: ids}, nil
}
