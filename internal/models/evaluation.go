package models

import (
	"encoding/json"
	"errors"
	"time"
)

// EvaluatorKind names the principal type that authored an evaluation.
type EvaluatorKind string

const (
	EvaluatorMentor   EvaluatorKind = "mentor"
	EvaluatorEmployer EvaluatorKind = "employer"
	EvaluatorStudent  EvaluatorKind = "student"
)

var (
	// ErrNoEvaluator is returned when none of the evaluator references is set.
	ErrNoEvaluator = errors.New("at least one evaluator id must be provided")
	// ErrMultipleEvaluators is returned when more than one evaluator reference is set.
	ErrMultipleEvaluators = errors.New("only one type of evaluator can be provided at a time")
)

// Evaluator identifies exactly one mentor, employer or student.
type Evaluator struct {
	Kind EvaluatorKind `json:"kind"`
	ID   int64         `json:"id"`
}

// EvaluatorFromIDs builds an Evaluator from the three nullable evaluator
// references. Exactly one must be non-nil.
func EvaluatorFromIDs(mentorID, employerID, studentID *int64) (Evaluator, error) {
	var (
		ev    Evaluator
		count int
	)
	if mentorID != nil {
		ev = Evaluator{Kind: EvaluatorMentor, ID: *mentorID}
		count++
	}
	if employerID != nil {
		ev = Evaluator{Kind: EvaluatorEmployer, ID: *employerID}
		count++
	}
	if studentID != nil {
		ev = Evaluator{Kind: EvaluatorStudent, ID: *studentID}
		count++
	}
	switch count {
	case 0:
		return Evaluator{}, ErrNoEvaluator
	case 1:
		return ev, nil
	default:
		return Evaluator{}, ErrMultipleEvaluators
	}
}

// IDs spreads the evaluator back into the three nullable references.
func (e Evaluator) IDs() (mentorID, employerID, studentID *int64) {
	id := e.ID
	switch e.Kind {
	case EvaluatorMentor:
		mentorID = &id
	case EvaluatorEmployer:
		employerID = &id
	case EvaluatorStudent:
		studentID = &id
	}
	return
}

// Evaluation is feedback about a student on a placement.
type Evaluation struct {
	ID          int64     `json:"id"`
	Feedback    string    `json:"feedback"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	PlacementID int64     `json:"placement_id"`
	SubjectID   int64     `json:"subject_id"`
	Evaluator   Evaluator `json:"-"`
}

type evaluationJSON struct {
	ID                  int64         `json:"id"`
	Feedback            string        `json:"feedback"`
	Rating              int           `json:"rating"`
	CreatedAt           time.Time     `json:"created_at"`
	PlacementID         int64         `json:"placement_id"`
	SubjectID           int64         `json:"subject_id"`
	MentorEvaluatorID   *int64        `json:"mentor_evaluator_id"`
	EmployerEvaluatorID *int64        `json:"employer_evaluator_id"`
	StudentEvaluatorID  *int64        `json:"student_evaluator_id"`
	EvaluatorType       EvaluatorKind `json:"evaluator_type"`
}

// MarshalJSON renders the evaluator as three nullable id fields.
func (e Evaluation) MarshalJSON() ([]byte, error) {
	mentorID, employerID, studentID := e.Evaluator.IDs()
	return json.Marshal(evaluationJSON{
		ID:                  e.ID,
		Feedback:            e.Feedback,
		Rating:              e.Rating,
		CreatedAt:           e.CreatedAt,
		PlacementID:         e.PlacementID,
		SubjectID:           e.SubjectID,
		MentorEvaluatorID:   mentorID,
		EmployerEvaluatorID: employerID,
		StudentEvaluatorID:  studentID,
		EvaluatorType:       e.Evaluator.Kind,
	})
}

// EvaluationFilter encapsulates allowed search parameters for listing evaluations.
type EvaluationFilter struct {
	PlacementID int64
	SubjectID   int64
	Page        int
	PageSize    int
}
