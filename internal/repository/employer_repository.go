package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-api/internal/models"
)

const employerColumns = "id, company_name, email, contact_person, industry, password_hash"

// EmployerRepository manages persistence for employers.
type EmployerRepository struct {
	db *sqlx.DB
}

// NewEmployerRepository constructs an EmployerRepository.
func NewEmployerRepository(db *sqlx.DB) *EmployerRepository {
	return &EmployerRepository{db: db}
}

// List returns employers matching the provided filters.
func (r *EmployerRepository) List(ctx context.Context, filter models.EmployerFilter) ([]models.Employer, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(company_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Industry != "" {
		conditions = append(conditions, fmt.Sprintf("industry = $%d", len(args)+1))
		args = append(args, filter.Industry)
	}
	where := strings.Join(conditions, " AND ")
	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"id":           "id",
		"company_name": "company_name",
		"email":        "email",
	}, "id")

	query := fmt.Sprintf("SELECT %s FROM employers WHERE %s ORDER BY %s %s", employerColumns, where, order, pageClause(filter.Page, filter.PageSize))
	employers := []models.Employer{}
	if err := r.db.SelectContext(ctx, &employers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employers: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM employers WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count employers: %w", err)
	}
	return employers, total, nil
}

// FindByID fetches an employer by ID.
func (r *EmployerRepository) FindByID(ctx context.Context, id int64) (*models.Employer, error) {
	var employer models.Employer
	if err := r.db.GetContext(ctx, &employer, "SELECT "+employerColumns+" FROM employers WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &employer, nil
}

// FindByEmail fetches an employer by email.
func (r *EmployerRepository) FindByEmail(ctx context.Context, email string) (*models.Employer, error) {
	var employer models.Employer
	if err := r.db.GetContext(ctx, &employer, "SELECT "+employerColumns+" FROM employers WHERE email = $1", email); err != nil {
		return nil, err
	}
	return &employer, nil
}

// ExistsByEmail checks if an employer with given email exists optionally excluding an ID.
func (r *EmployerRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return existsByEmail(ctx, r.db, "employers", email, excludeID)
}

// Create inserts a new employer and assigns the generated ID.
func (r *EmployerRepository) Create(ctx context.Context, employer *models.Employer) error {
	const query = `INSERT INTO employers (company_name, email, contact_person, industry, password_hash) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, employer.CompanyName, employer.Email, employer.ContactPerson, employer.Industry, employer.PasswordHash).Scan(&employer.ID); err != nil {
		return fmt.Errorf("create employer: %w", err)
	}
	return nil
}

// Update modifies an existing employer.
func (r *EmployerRepository) Update(ctx context.Context, employer *models.Employer) error {
	const query = `UPDATE employers SET company_name = :company_name, email = :email, contact_person = :contact_person, industry = :industry, password_hash = :password_hash WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, employer)
	if err != nil {
		return fmt.Errorf("update employer: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an employer.
func (r *EmployerRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employer: %w", err)
	}
	return requireAffected(res)
}
