package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-api/internal/models"
)

const evaluationColumns = "id, feedback, rating, created_at, placement_id, subject_id, mentor_evaluator_id, employer_evaluator_id, student_evaluator_id"

// evaluationRow mirrors the evaluations table, where the evaluator is stored
// as three nullable columns.
type evaluationRow struct {
	ID                  int64     `db:"id"`
	Feedback            string    `db:"feedback"`
	Rating              int       `db:"rating"`
	CreatedAt           time.Time `db:"created_at"`
	PlacementID         int64     `db:"placement_id"`
	SubjectID           int64     `db:"subject_id"`
	MentorEvaluatorID   *int64    `db:"mentor_evaluator_id"`
	EmployerEvaluatorID *int64    `db:"employer_evaluator_id"`
	StudentEvaluatorID  *int64    `db:"student_evaluator_id"`
}

func (row evaluationRow) toModel() (models.Evaluation, error) {
	evaluator, err := models.EvaluatorFromIDs(row.MentorEvaluatorID, row.EmployerEvaluatorID, row.StudentEvaluatorID)
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("evaluation %d: %w", row.ID, err)
	}
	return models.Evaluation{
		ID:          row.ID,
		Feedback:    row.Feedback,
		Rating:      row.Rating,
		CreatedAt:   row.CreatedAt,
		PlacementID: row.PlacementID,
		SubjectID:   row.SubjectID,
		Evaluator:   evaluator,
	}, nil
}

// EvaluationRepository manages persistence for evaluations.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs an EvaluationRepository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// List returns evaluations matching the provided filters.
func (r *EvaluationRepository) List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.PlacementID != 0 {
		conditions = append(conditions, fmt.Sprintf("placement_id = $%d", len(args)+1))
		args = append(args, filter.PlacementID)
	}
	if filter.SubjectID != 0 {
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf("SELECT %s FROM evaluations WHERE %s ORDER BY id ASC %s", evaluationColumns, where, pageClause(filter.Page, filter.PageSize))
	var rows []evaluationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list evaluations: %w", err)
	}
	evaluations := make([]models.Evaluation, 0, len(rows))
	for _, row := range rows {
		evaluation, err := row.toModel()
		if err != nil {
			return nil, 0, err
		}
		evaluations = append(evaluations, evaluation)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM evaluations WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count evaluations: %w", err)
	}
	return evaluations, total, nil
}

// FindByID fetches an evaluation by ID.
func (r *EvaluationRepository) FindByID(ctx context.Context, id int64) (*models.Evaluation, error) {
	var row evaluationRow
	if err := r.db.GetContext(ctx, &row, "SELECT "+evaluationColumns+" FROM evaluations WHERE id = $1", id); err != nil {
		return nil, err
	}
	evaluation, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// Create inserts an evaluation, filling the generated ID and created_at.
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	mentorID, employerID, studentID := evaluation.Evaluator.IDs()
	const query = `INSERT INTO evaluations (feedback, rating, placement_id, subject_id, mentor_evaluator_id, employer_evaluator_id, student_evaluator_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query,
		evaluation.Feedback,
		evaluation.Rating,
		evaluation.PlacementID,
		evaluation.SubjectID,
		mentorID,
		employerID,
		studentID,
	).Scan(&evaluation.ID, &evaluation.CreatedAt); err != nil {
		return fmt.Errorf("create evaluation: %w", err)
	}
	return nil
}

// Update writes feedback and rating. Other columns are immutable.
func (r *EvaluationRepository) Update(ctx context.Context, evaluation *models.Evaluation) error {
	res, err := r.db.ExecContext(ctx, `UPDATE evaluations SET feedback = $1, rating = $2 WHERE id = $3`, evaluation.Feedback, evaluation.Rating, evaluation.ID)
	if err != nil {
		return fmt.Errorf("update evaluation: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an evaluation.
func (r *EvaluationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM evaluations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	return requireAffected(res)
}
