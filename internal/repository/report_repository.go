package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-api/internal/models"
)

// ReportRepository runs read-only aggregate queries.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// PlacementsPerEmployer counts placements grouped by employer company name.
// Employers without placements are not listed.
func (r *ReportRepository) PlacementsPerEmployer(ctx context.Context) ([]models.EmployerPlacementCount, error) {
	const query = `SELECT e.company_name, COUNT(p.id) AS placement_count
FROM employers e
JOIN placements p ON p.employer_id = e.id
GROUP BY e.company_name
ORDER BY placement_count DESC, e.company_name ASC`
	rows := []models.EmployerPlacementCount{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("placements per employer: %w", err)
	}
	return rows, nil
}
