package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/models"
)

func TestMentorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectQuery("INSERT INTO mentors").
		WithArgs("Jo", "jo@mentors.test", "Backend", "digest").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	mentor := &models.Mentor{FullName: "Jo", Email: "jo@mentors.test", Field: "Backend", PasswordHash: "digest"}
	require.NoError(t, repo.Create(context.Background(), mentor))
	assert.Equal(t, int64(1), mentor.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorRepositoryReplaceStudents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM mentor_student_links WHERE mentor_id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO mentor_student_links").
		WithArgs(int64(1), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO mentor_student_links").
		WithArgs(int64(1), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceStudents(context.Background(), 1, []int64{8, 9, 8}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorRepositoryReplaceStudentsRollback(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM mentor_student_links").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO mentor_student_links").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	require.Error(t, repo.ReplaceStudents(context.Background(), 1, []int64{8}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorRepositoryStudentIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id FROM mentor_student_links WHERE mentor_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"student_id"}).AddRow(4).AddRow(6))

	ids, err := repo.StudentIDs(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 6}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorRepositoryDeleteClearsLinks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM mentor_student_links").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM mentors WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
