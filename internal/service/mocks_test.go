package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/internship-api/internal/models"
)

type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (fakeHasher) Verify(plaintext, digest string) bool { return digest == "hashed:"+plaintext }

type mockStudentRepo struct {
	students   map[int64]models.Student
	nextID     int64
	lastFilter models.StudentFilter
	listTotal  int
	deleted    []int64
	createErr  error
	deleteErr  error
	err        error
}

func newMockStudentRepo(students ...models.Student) *mockStudentRepo {
	m := &mockStudentRepo{students: map[int64]models.Student{}}
	for _, s := range students {
		m.students[s.ID] = s
		if s.ID > m.nextID {
			m.nextID = s.ID
		}
	}
	return m
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, m.listTotal, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.students {
		if strings.EqualFold(s.Email, email) {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, s := range m.students {
		if strings.EqualFold(s.Email, email) && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	found := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.students[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	student.ID = m.nextID
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.students, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockMentorRepo struct {
	mentors  map[int64]models.Mentor
	links    map[int64][]int64
	nextID   int64
	err      error
	replaced int
}

func newMockMentorRepo(mentors ...models.Mentor) *mockMentorRepo {
	m := &mockMentorRepo{mentors: map[int64]models.Mentor{}, links: map[int64][]int64{}}
	for _, mentor := range mentors {
		m.mentors[mentor.ID] = mentor
		if mentor.ID > m.nextID {
			m.nextID = mentor.ID
		}
	}
	return m
}

func (m *mockMentorRepo) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error) {
	out := make([]models.Mentor, 0, len(m.mentors))
	for _, mentor := range m.mentors {
		out = append(out, mentor)
	}
	return out, len(out), nil
}

func (m *mockMentorRepo) FindByID(ctx context.Context, id int64) (*models.Mentor, error) {
	if mentor, ok := m.mentors[id]; ok {
		return &mentor, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMentorRepo) FindByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, mentor := range m.mentors {
		if strings.EqualFold(mentor.Email, email) {
			return &mentor, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockMentorRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, mentor := range m.mentors {
		if strings.EqualFold(mentor.Email, email) && mentor.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMentorRepo) Create(ctx context.Context, mentor *models.Mentor) error {
	m.nextID++
	mentor.ID = m.nextID
	m.mentors[mentor.ID] = *mentor
	return nil
}

func (m *mockMentorRepo) Update(ctx context.Context, mentor *models.Mentor) error {
	m.mentors[mentor.ID] = *mentor
	return nil
}

func (m *mockMentorRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.mentors[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.mentors, id)
	delete(m.links, id)
	return nil
}

func (m *mockMentorRepo) StudentIDs(ctx context.Context, mentorID int64) ([]int64, error) {
	ids := m.links[mentorID]
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (m *mockMentorRepo) ReplaceStudents(ctx context.Context, mentorID int64, studentIDs []int64) error {
	m.replaced++
	m.links[mentorID] = append([]int64(nil), studentIDs...)
	return nil
}

type mockEmployerRepo struct {
	employers map[int64]models.Employer
	nextID    int64
	deleteErr error
}

func newMockEmployerRepo(employers ...models.Employer) *mockEmployerRepo {
	m := &mockEmployerRepo{employers: map[int64]models.Employer{}}
	for _, e := range employers {
		m.employers[e.ID] = e
		if e.ID > m.nextID {
			m.nextID = e.ID
		}
	}
	return m
}

func (m *mockEmployerRepo) List(ctx context.Context, filter models.EmployerFilter) ([]models.Employer, int, error) {
	out := make([]models.Employer, 0, len(m.employers))
	for _, e := range m.employers {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *mockEmployerRepo) FindByID(ctx context.Context, id int64) (*models.Employer, error) {
	if e, ok := m.employers[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployerRepo) FindByEmail(ctx context.Context, email string) (*models.Employer, error) {
	for _, e := range m.employers {
		if strings.EqualFold(e.Email, email) {
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployerRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, e := range m.employers {
		if strings.EqualFold(e.Email, email) && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployerRepo) Create(ctx context.Context, employer *models.Employer) error {
	m.nextID++
	employer.ID = m.nextID
	m.employers[employer.ID] = *employer
	return nil
}

func (m *mockEmployerRepo) Update(ctx context.Context, employer *models.Employer) error {
	m.employers[employer.ID] = *employer
	return nil
}

func (m *mockEmployerRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.employers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.employers, id)
	return nil
}

type mockPlacementRepo struct {
	placements map[int64]models.Placement
	links      map[int64][]int64
	nextID     int64
	createErr  error
	updates    int
}

func newMockPlacementRepo() *mockPlacementRepo {
	return &mockPlacementRepo{placements: map[int64]models.Placement{}, links: map[int64][]int64{}}
}

func (m *mockPlacementRepo) List(ctx context.Context, filter models.PlacementFilter) ([]models.Placement, int, error) {
	out := make([]models.Placement, 0, len(m.placements))
	for _, p := range m.placements {
		if filter.EmployerID != 0 && p.EmployerID != filter.EmployerID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockPlacementRepo) FindByID(ctx context.Context, id int64) (*models.Placement, error) {
	if p, ok := m.placements[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPlacementRepo) StudentIDs(ctx context.Context, placementIDs ...int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(placementIDs))
	for _, id := range placementIDs {
		if ids, ok := m.links[id]; ok {
			out[id] = ids
		}
	}
	return out, nil
}

func (m *mockPlacementRepo) Create(ctx context.Context, placement *models.Placement, studentIDs []int64) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	placement.ID = m.nextID
	m.placements[placement.ID] = *placement
	if len(studentIDs) > 0 {
		m.links[placement.ID] = append([]int64(nil), studentIDs...)
	}
	return nil
}

func (m *mockPlacementRepo) Update(ctx context.Context, placement *models.Placement, studentIDs *[]int64) error {
	m.updates++
	if _, ok := m.placements[placement.ID]; !ok {
		return sql.ErrNoRows
	}
	m.placements[placement.ID] = *placement
	if studentIDs != nil {
		m.links[placement.ID] = append([]int64(nil), (*studentIDs)...)
	}
	return nil
}

func (m *mockPlacementRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.placements[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.placements, id)
	delete(m.links, id)
	return nil
}

type mockEvaluationRepo struct {
	evaluations map[int64]models.Evaluation
	nextID      int64
	createErr   error
	created     int
}

func newMockEvaluationRepo() *mockEvaluationRepo {
	return &mockEvaluationRepo{evaluations: map[int64]models.Evaluation{}}
}

func (m *mockEvaluationRepo) List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, int, error) {
	out := make([]models.Evaluation, 0, len(m.evaluations))
	for _, e := range m.evaluations {
		if filter.PlacementID != 0 && e.PlacementID != filter.PlacementID {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *mockEvaluationRepo) FindByID(ctx context.Context, id int64) (*models.Evaluation, error) {
	if e, ok := m.evaluations[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEvaluationRepo) Create(ctx context.Context, evaluation *models.Evaluation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created++
	m.nextID++
	evaluation.ID = m.nextID
	evaluation.CreatedAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	m.evaluations[evaluation.ID] = *evaluation
	return nil
}

func (m *mockEvaluationRepo) Update(ctx context.Context, evaluation *models.Evaluation) error {
	m.evaluations[evaluation.ID] = *evaluation
	return nil
}

func (m *mockEvaluationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.evaluations[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.evaluations, id)
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func registered(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: subject}
}
