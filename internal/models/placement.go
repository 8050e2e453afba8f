package models

// Placement is a time-bounded assignment owned by one employer and one mentor.
type Placement struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	StartDate   Date   `db:"start_date" json:"start_date"`
	EndDate     Date   `db:"end_date" json:"end_date"`
	Status      string `db:"status" json:"status"`
	EmployerID  int64  `db:"employer_id" json:"employer_id"`
	MentorID    int64  `db:"mentor_id" json:"mentor_id"`
}

// PlacementDetail is a placement together with its linked students.
type PlacementDetail struct {
	Placement
	StudentIDs []int64 `json:"student_ids"`
}

// PlacementFilter encapsulates allowed search parameters for listing placements.
type PlacementFilter struct {
	EmployerID int64
	MentorID   int64
	StudentID  int64
	Status     string
	Page       int
	PageSize   int
}
