package database

import (
	"errors"

	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes the access layer translates.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint failure. When
// constraint is non-empty the violated constraint name must match as well.
func IsUniqueViolation(err error, constraint ...string) bool {
	return matches(err, codeUniqueViolation, constraint)
}

// IsForeignKeyViolation reports whether err is a foreign key failure, either a
// missing referenced row on insert/update or a still-referenced row on delete.
func IsForeignKeyViolation(err error, constraint ...string) bool {
	return matches(err, codeForeignKeyViolation, constraint)
}

// ConstraintName returns the violated constraint for a driver error, or "".
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func matches(err error, code string, constraint []string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != code {
		return false
	}
	if len(constraint) == 0 || constraint[0] == "" {
		return true
	}
	return pqErr.Constraint == constraint[0]
}
