package models

// StudentPlacementLink associates a student with a placement.
type StudentPlacementLink struct {
	StudentID   int64 `db:"student_id" json:"student_id"`
	PlacementID int64 `db:"placement_id" json:"placement_id"`
}

// MentorStudentLink associates a mentor with a student.
type MentorStudentLink struct {
	MentorID  int64 `db:"mentor_id" json:"mentor_id"`
	StudentID int64 `db:"student_id" json:"student_id"`
}
