package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreakFindReturnsRecord(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStreakRepository(db)

	rows := sqlmock.NewRows([]string{"user_id", "streak", "last_upload_date"}).
		AddRow("u1", 4, "2026-08-27")
	mock.ExpectQuery("SELECT user_id, streak, COALESCE").
		WithArgs("u1").
		WillReturnRows(rows)

	streak, err := repo.Find(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, streak)
	assert.Equal(t, 4, streak.Count)
	assert.Equal(t, "2026-08-27", streak.LastUploadDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreakFindMissingRowIsNil(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStreakRepository(db)

	mock.ExpectQuery("SELECT user_id, streak, COALESCE").
		WithArgs("u2").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "streak", "last_upload_date"}))

	streak, err := repo.Find(context.Background(), "u2")
	require.NoError(t, err)
	assert.Nil(t, streak)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreakUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStreakRepository(db)

	mock.ExpectExec("INSERT INTO leaderboards").
		WithArgs("u1", 5, "2026-08-28").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), "u1", 5, "2026-08-28"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
