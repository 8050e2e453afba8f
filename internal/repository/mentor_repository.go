package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-api/internal/models"
)

const mentorColumns = "id, full_name, email, field, password_hash"

// MentorRepository manages persistence for mentors and their student links.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository constructs a MentorRepository.
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

// List returns mentors matching the provided filters.
func (r *MentorRepository) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Field != "" {
		conditions = append(conditions, fmt.Sprintf("field = $%d", len(args)+1))
		args = append(args, filter.Field)
	}
	where := strings.Join(conditions, " AND ")
	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"id":        "id",
		"full_name": "full_name",
		"email":     "email",
	}, "id")

	query := fmt.Sprintf("SELECT %s FROM mentors WHERE %s ORDER BY %s %s", mentorColumns, where, order, pageClause(filter.Page, filter.PageSize))
	mentors := []models.Mentor{}
	if err := r.db.SelectContext(ctx, &mentors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list mentors: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM mentors WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count mentors: %w", err)
	}
	return mentors, total, nil
}

// FindByID fetches a mentor by ID.
func (r *MentorRepository) FindByID(ctx context.Context, id int64) (*models.Mentor, error) {
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, "SELECT "+mentorColumns+" FROM mentors WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// FindByEmail fetches a mentor by email.
func (r *MentorRepository) FindByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, "SELECT "+mentorColumns+" FROM mentors WHERE email = $1", email); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// ExistsByEmail checks if a mentor with given email exists optionally excluding an ID.
func (r *MentorRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return existsByEmail(ctx, r.db, "mentors", email, excludeID)
}

// Create inserts a new mentor and assigns the generated ID.
func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	const query = `INSERT INTO mentors (full_name, email, field, password_hash) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, mentor.FullName, mentor.Email, mentor.Field, mentor.PasswordHash).Scan(&mentor.ID); err != nil {
		return fmt.Errorf("create mentor: %w", err)
	}
	return nil
}

// Update modifies an existing mentor.
func (r *MentorRepository) Update(ctx context.Context, mentor *models.Mentor) error {
	const query = `UPDATE mentors SET full_name = :full_name, email = :email, field = :field, password_hash = :password_hash WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, mentor)
	if err != nil {
		return fmt.Errorf("update mentor: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a mentor together with its student links.
func (r *MentorRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete mentor: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM mentor_student_links WHERE mentor_id = $1`, id); err != nil {
		return fmt.Errorf("clear mentor students: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM mentors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete mentor: %w", err)
	}
	if err = requireAffected(res); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete mentor: %w", err)
	}
	return nil
}

// StudentIDs returns the ids of students linked to the mentor.
func (r *MentorRepository) StudentIDs(ctx context.Context, mentorID int64) ([]int64, error) {
	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, `SELECT student_id FROM mentor_student_links WHERE mentor_id = $1 ORDER BY student_id`, mentorID); err != nil {
		return nil, fmt.Errorf("list mentor students: %w", err)
	}
	return ids, nil
}

// ReplaceStudents replaces the mentor's student set within a transaction.
func (r *MentorRepository) ReplaceStudents(ctx context.Context, mentorID int64, studentIDs []int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace mentor students: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM mentor_student_links WHERE mentor_id = $1`, mentorID); err != nil {
		return fmt.Errorf("clear mentor students: %w", err)
	}
	for _, studentID := range uniqueIDs(studentIDs) {
		link := models.MentorStudentLink{MentorID: mentorID, StudentID: studentID}
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO mentor_student_links (mentor_id, student_id) VALUES (:mentor_id, :student_id)`, &link); err != nil {
			return fmt.Errorf("insert mentor student: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace mentor students: %w", err)
	}
	return nil
}
