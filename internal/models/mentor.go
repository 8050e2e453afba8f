package models

// Mentor supervises placements and is linked to many students.
type Mentor struct {
	ID           int64  `db:"id" json:"id"`
	FullName     string `db:"full_name" json:"full_name"`
	Email        string `db:"email" json:"email"`
	Field        string `db:"field" json:"field"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// MentorFilter encapsulates allowed search parameters for listing mentors.
type MentorFilter struct {
	Search    string
	Field     string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// MentorStudents lists the students linked to a mentor.
type MentorStudents struct {
	MentorID   int64   `json:"mentor_id"`
	StudentIDs []int64 `json:"student_ids"`
}
