package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/pkg/database"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// lookupError maps a missing row to NotFound and anything else to Internal.
func lookupError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Internal(err, "failed to load "+entity)
}

// writeError translates driver failures raised by a create or update.
func writeError(err error, entity, action string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	case database.IsUniqueViolation(err):
		if _, ok := emailConstraints[database.ConstraintName(err)]; ok {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "email already registered")
		}
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, entity+" already exists")
	case database.IsForeignKeyViolation(err):
		if msg, ok := missingReference[database.ConstraintName(err)]; ok {
			return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, msg)
		}
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "referenced record not found")
	default:
		return appErrors.Internal(err, fmt.Sprintf("failed to %s %s", action, entity))
	}
}

// deleteError translates driver failures raised by a delete.
func deleteError(err error, entity string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	case database.IsForeignKeyViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, entity+" is still referenced by other records")
	default:
		return appErrors.Internal(err, "failed to delete "+entity)
	}
}

var emailConstraints = map[string]struct{}{
	database.ConstraintStudentEmail:  {},
	database.ConstraintMentorEmail:   {},
	database.ConstraintEmployerEmail: {},
}

var missingReference = map[string]string{
	database.ConstraintPlacementEmpl:  "employer not found",
	database.ConstraintPlacementMent:  "mentor not found",
	database.ConstraintLinkStudent:    "student not found",
	database.ConstraintMentorLinkStud: "student not found",
	database.ConstraintEvalPlacement:  "placement not found",
	database.ConstraintEvalSubject:    "subject student not found",
	database.ConstraintEvalMentor:     "mentor evaluator not found",
	database.ConstraintEvalEmployer:   "employer evaluator not found",
	database.ConstraintEvalStudent:    "student evaluator not found",
}

func paginate(page, size, total int) *models.Pagination {
	page, size = models.NormalizePage(page, size)
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

// missingStudent reports the first requested id absent from found.
func missingStudent(requested, found []int64) (int64, bool) {
	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			return id, true
		}
	}
	return 0, false
}

// dedupe drops duplicate ids keeping first-seen order. The result is never nil.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
