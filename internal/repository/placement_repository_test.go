package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/pkg/database"
)

func samplePlacement() *models.Placement {
	return &models.Placement{
		Title:       "Backend intern",
		Description: "APIs",
		StartDate:   models.NewDate(2024, 6, 1),
		EndDate:     models.NewDate(2024, 9, 1),
		Status:      "open",
		EmployerID:  1,
		MentorID:    1,
	}
}

func TestPlacementRepositoryCreateWithStudents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO placements").
		WithArgs("Backend intern", "APIs", "2024-06-01", "2024-09-01", "open", int64(1), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec("INSERT INTO student_placement_links").
		WithArgs(int64(4), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO student_placement_links").
		WithArgs(int64(2), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	placement := samplePlacement()
	require.NoError(t, repo.Create(context.Background(), placement, []int64{4, 2, 4}))
	assert.Equal(t, int64(10), placement.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryCreateRollsBackOnLinkFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO placements").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec("INSERT INTO student_placement_links").
		WillReturnError(&pq.Error{Code: "23503", Constraint: database.ConstraintLinkStudent})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), samplePlacement(), []int64{999})
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err, database.ConstraintLinkStudent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryUpdateReplacesStudents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE placements SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_placement_links WHERE placement_id = $1")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO student_placement_links").
		WithArgs(int64(7), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	placement := samplePlacement()
	placement.ID = 10
	ids := []int64{7}
	require.NoError(t, repo.Update(context.Background(), placement, &ids))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryUpdateKeepsStudentsWhenNil(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE placements SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	placement := samplePlacement()
	placement.ID = 10
	require.NoError(t, repo.Update(context.Background(), placement, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE placements SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ids := []int64{}
	err := repo.Update(context.Background(), &models.Placement{ID: 404}, &ids)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryDeleteRemovesLinksFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_placement_links WHERE placement_id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM placements WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryDeleteFailureRollsBackLinks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM student_placement_links").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM placements").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	require.Error(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryStudentIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM student_placement_links WHERE placement_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "placement_id"}).
			AddRow(1, 5).
			AddRow(2, 5).
			AddRow(3, 6))

	links, err := repo.StudentIDs(context.Background(), 5, 6, 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, links[5])
	assert.Equal(t, []int64{3}, links[6])
	assert.NotContains(t, links, int64(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM placements p WHERE p.id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "start_date", "end_date", "status", "employer_id", "mentor_id"}).
			AddRow(5, "Intern", "desc", "2024-06-01", "2024-09-01", "open", 1, 2))

	placement, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", placement.StartDate.String())
	assert.Equal(t, int64(2), placement.MentorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND p.employer_id = $1 AND EXISTS (SELECT 1 FROM student_placement_links l WHERE l.placement_id = p.id AND l.student_id = $2) ORDER BY p.id ASC LIMIT 20 OFFSET 0")).
		WithArgs(int64(1), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "start_date", "end_date", "status", "employer_id", "mentor_id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM placements p WHERE")).
		WithArgs(int64(1), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	placements, total, err := repo.List(context.Background(), models.PlacementFilter{EmployerID: 1, StudentID: 9})
	require.NoError(t, err)
	assert.Empty(t, placements)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
