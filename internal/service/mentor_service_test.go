package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/pkg/database"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

func TestMentorServiceSetStudents(t *testing.T) {
	mentors := newMockMentorRepo(models.Mentor{ID: 1, FullName: "Rina"})
	students := newMockStudentRepo(models.Student{ID: 10}, models.Student{ID: 11})
	svc := NewMentorService(mentors, students, fakeHasher{}, nil, nil)

	result, err := svc.SetStudents(context.Background(), 1, SetMentorStudentsRequest{StudentIDs: []int64{11, 10, 11}})
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 10}, result.StudentIDs)

	listed, err := svc.Students(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 10}, listed.StudentIDs)

	result, err = svc.SetStudents(context.Background(), 1, SetMentorStudentsRequest{StudentIDs: []int64{}})
	require.NoError(t, err)
	assert.Empty(t, result.StudentIDs)
	assert.NotNil(t, result.StudentIDs)
}

func TestMentorServiceSetStudentsUnknownStudent(t *testing.T) {
	mentors := newMockMentorRepo(models.Mentor{ID: 1})
	svc := NewMentorService(mentors, newMockStudentRepo(models.Student{ID: 10}), fakeHasher{}, nil, nil)

	_, err := svc.SetStudents(context.Background(), 1, SetMentorStudentsRequest{StudentIDs: []int64{10, 77}})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "student with id 77 not found", appErrors.FromError(err).Message)
	assert.Zero(t, mentors.replaced)
}

func TestMentorServiceUnknownMentor(t *testing.T) {
	svc := NewMentorService(newMockMentorRepo(), newMockStudentRepo(), fakeHasher{}, nil, nil)

	_, err := svc.Students(context.Background(), 5)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = svc.SetStudents(context.Background(), 5, SetMentorStudentsRequest{StudentIDs: []int64{}})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 5), appErrors.ErrNotFound)
}

func TestMentorServiceCreateAndUpdate(t *testing.T) {
	repo := newMockMentorRepo()
	svc := NewMentorService(repo, newMockStudentRepo(), fakeHasher{}, nil, nil)

	mentor, err := svc.Create(context.Background(), CreateMentorRequest{FullName: "Rina", Email: "rina@example.test", Field: "Data", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "hashed:pw", mentor.PasswordHash)

	_, err = svc.Create(context.Background(), CreateMentorRequest{FullName: "Rina 2", Email: "rina@example.test", Field: "Data", Password: "pw"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	updated, err := svc.Update(context.Background(), mentor.ID, UpdateMentorRequest{Field: strPtr("Security")})
	require.NoError(t, err)
	assert.Equal(t, "Security", updated.Field)
	assert.Equal(t, "Rina", updated.FullName)
}

func TestEmployerServiceLifecycle(t *testing.T) {
	repo := newMockEmployerRepo()
	svc := NewEmployerService(repo, fakeHasher{}, nil, nil)

	employer, err := svc.Create(context.Background(), CreateEmployerRequest{
		CompanyName:   "Acme",
		Email:         "hr@acme.test",
		ContactPerson: "Wile",
		Industry:      "Manufacturing",
		Password:      "pw",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), employer.ID, UpdateEmployerRequest{CompanyName: strPtr("Acme Corp"), Password: strPtr("pw2")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.CompanyName)
	assert.Equal(t, "hashed:pw2", repo.employers[employer.ID].PasswordHash)

	got, err := svc.Get(context.Background(), employer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Manufacturing", got.Industry)

	require.NoError(t, svc.Delete(context.Background(), employer.ID))
	_, err = svc.Get(context.Background(), employer.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestEmployerServiceDeleteWithPlacements(t *testing.T) {
	repo := newMockEmployerRepo(models.Employer{ID: 3})
	repo.deleteErr = &pq.Error{Code: "23503", Constraint: database.ConstraintPlacementEmpl}
	svc := NewEmployerService(repo, fakeHasher{}, nil, nil)

	err := svc.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}
