package models

// Student is a registered intern. Email is unique among students only.
type Student struct {
	ID           int64  `db:"id" json:"id"`
	FullName     string `db:"full_name" json:"full_name"`
	Email        string `db:"email" json:"email"`
	Major        string `db:"major" json:"major"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Major     string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
