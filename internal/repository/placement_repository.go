package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/internship-api/internal/models"
)

const placementColumns = "p.id, p.title, p.description, p.start_date, p.end_date, p.status, p.employer_id, p.mentor_id"

// PlacementRepository manages placements and their student links. Every write
// touching link rows runs in a single transaction.
type PlacementRepository struct {
	db *sqlx.DB
}

// NewPlacementRepository constructs a PlacementRepository.
func NewPlacementRepository(db *sqlx.DB) *PlacementRepository {
	return &PlacementRepository{db: db}
}

// List returns placements matching the provided filters.
func (r *PlacementRepository) List(ctx context.Context, filter models.PlacementFilter) ([]models.Placement, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.EmployerID != 0 {
		conditions = append(conditions, fmt.Sprintf("p.employer_id = $%d", len(args)+1))
		args = append(args, filter.EmployerID)
	}
	if filter.MentorID != 0 {
		conditions = append(conditions, fmt.Sprintf("p.mentor_id = $%d", len(args)+1))
		args = append(args, filter.MentorID)
	}
	if filter.StudentID != 0 {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM student_placement_links l WHERE l.placement_id = p.id AND l.student_id = $%d)", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(p.status) = $%d", len(args)+1))
		args = append(args, strings.ToLower(filter.Status))
	}
	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf("SELECT %s FROM placements p WHERE %s ORDER BY p.id ASC %s", placementColumns, where, pageClause(filter.Page, filter.PageSize))
	placements := []models.Placement{}
	if err := r.db.SelectContext(ctx, &placements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list placements: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM placements p WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count placements: %w", err)
	}
	return placements, total, nil
}

// FindByID fetches a placement by ID.
func (r *PlacementRepository) FindByID(ctx context.Context, id int64) (*models.Placement, error) {
	var placement models.Placement
	if err := r.db.GetContext(ctx, &placement, "SELECT "+placementColumns+" FROM placements p WHERE p.id = $1", id); err != nil {
		return nil, err
	}
	return &placement, nil
}

// StudentIDs returns linked student ids keyed by placement id. Placements
// without links are absent from the map.
func (r *PlacementRepository) StudentIDs(ctx context.Context, placementIDs ...int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(placementIDs))
	if len(placementIDs) == 0 {
		return result, nil
	}
	var links []models.StudentPlacementLink
	const query = `SELECT student_id, placement_id FROM student_placement_links WHERE placement_id = ANY($1) ORDER BY placement_id, student_id`
	if err := r.db.SelectContext(ctx, &links, query, pq.Array(placementIDs)); err != nil {
		return nil, fmt.Errorf("list placement students: %w", err)
	}
	for _, link := range links {
		result[link.PlacementID] = append(result[link.PlacementID], link.StudentID)
	}
	return result, nil
}

// Create inserts the placement and its student links atomically.
func (r *PlacementRepository) Create(ctx context.Context, placement *models.Placement, studentIDs []int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create placement: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO placements (title, description, start_date, end_date, status, employer_id, mentor_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err = tx.QueryRowxContext(ctx, query,
		placement.Title,
		placement.Description,
		placement.StartDate,
		placement.EndDate,
		placement.Status,
		placement.EmployerID,
		placement.MentorID,
	).Scan(&placement.ID); err != nil {
		return fmt.Errorf("create placement: %w", err)
	}

	if err = insertPlacementLinks(ctx, tx, placement.ID, studentIDs); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create placement: %w", err)
	}
	return nil
}

// Update writes the placement columns and, when studentIDs is non-nil,
// replaces the linked student set in the same transaction.
func (r *PlacementRepository) Update(ctx context.Context, placement *models.Placement, studentIDs *[]int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update placement: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE placements SET title = :title, description = :description, start_date = :start_date, end_date = :end_date,
        status = :status, employer_id = :employer_id, mentor_id = :mentor_id WHERE id = :id`
	res, err := tx.NamedExecContext(ctx, query, placement)
	if err != nil {
		return fmt.Errorf("update placement: %w", err)
	}
	if err = requireAffected(res); err != nil {
		return err
	}

	if studentIDs != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM student_placement_links WHERE placement_id = $1`, placement.ID); err != nil {
			return fmt.Errorf("clear placement students: %w", err)
		}
		if err = insertPlacementLinks(ctx, tx, placement.ID, *studentIDs); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update placement: %w", err)
	}
	return nil
}

// Delete removes the placement's student links and then the placement.
func (r *PlacementRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete placement: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM student_placement_links WHERE placement_id = $1`, id); err != nil {
		return fmt.Errorf("clear placement students: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM placements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete placement: %w", err)
	}
	if err = requireAffected(res); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete placement: %w", err)
	}
	return nil
}

func insertPlacementLinks(ctx context.Context, tx *sqlx.Tx, placementID int64, studentIDs []int64) error {
	for _, studentID := range uniqueIDs(studentIDs) {
		link := models.StudentPlacementLink{StudentID: studentID, PlacementID: placementID}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO student_placement_links (student_id, placement_id) VALUES (:student_id, :placement_id)`, &link); err != nil {
			return fmt.Errorf("insert placement student: %w", err)
		}
	}
	return nil
}
