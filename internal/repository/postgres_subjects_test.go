package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"stresswatch/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSubjectsRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresSubjectsRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresSubjectsRepo(db)
}

func subjectRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"subject_id", "name", "age", "cohort", "gender", "image_ref", "condition",
	})
}

func TestPostgresSubjectsRepo_Create_DefaultsToNotYetMeasured(t *testing.T) {
	db, mock, repo := setupSubjectsRepo(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO subjects`).
		WithArgs("subj-1", "Alex", 27, "student", "male", "", "NotYetMeasured").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), domain.Subject{
		SubjectID: "subj-1",
		Name:      "Alex",
		Age:       27,
		Group:     "student",
		Gender:    "male",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubjectsRepo_Get(t *testing.T) {
	db, mock, repo := setupSubjectsRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+[\s\S]+FROM subjects\s+WHERE subject_id = \$1`).
		WithArgs("subj-1").
		WillReturnRows(subjectRows().
			AddRow("subj-1", "Alex", 27, "student", "male", "", "Stressed"))

	s, err := repo.Get(context.Background(), "subj-1")
	require.NoError(t, err)
	assert.Equal(t, "Alex", s.Name)
	assert.Equal(t, domain.ConditionStressed, s.Condition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubjectsRepo_Get_NotFound(t *testing.T) {
	db, mock, repo := setupSubjectsRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM subjects`).
		WithArgs("missing").
		WillReturnRows(subjectRows())

	_, err := repo.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPostgresSubjectsRepo_UpdateCondition(t *testing.T) {
	db, mock, repo := setupSubjectsRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE subjects SET condition = \$2 WHERE subject_id = \$1`).
		WithArgs("subj-1", "NotStressed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateCondition(context.Background(), "subj-1", domain.ConditionNotStressed)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubjectsRepo_UpdateCondition_MissingSubject(t *testing.T) {
	db, mock, repo := setupSubjectsRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE subjects SET condition`).
		WithArgs("missing", "Stressed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCondition(context.Background(), "missing", domain.ConditionStressed)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPostgresSubjectsRepo_Delete(t *testing.T) {
	db, mock, repo := setupSubjectsRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM subjects WHERE subject_id = \$1`).
		WithArgs("subj-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "subj-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
