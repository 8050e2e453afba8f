package models

// Employer is a host company offering placements.
type Employer struct {
	ID            int64  `db:"id" json:"id"`
	CompanyName   string `db:"company_name" json:"company_name"`
	Email         string `db:"email" json:"email"`
	ContactPerson string `db:"contact_person" json:"contact_person"`
	Industry      string `db:"industry" json:"industry"`
	PasswordHash  string `db:"password_hash" json:"-"`
}

// EmployerFilter encapsulates allowed search parameters for listing employers.
type EmployerFilter struct {
	Search    string
	Industry  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
