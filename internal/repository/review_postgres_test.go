package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/internal/repository/testutil"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

func TestSubmitReview(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))
	input := domain.ReviewInput{
		UserID:  3,
		VinylID: 5,
		Rating:  4,
		Comment: "Great pressing, quiet surfaces",
	}

	// Test case 1: First review for the pair
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reviews WHERE user_id = \$1 AND vinyl_id = \$2\)`).
		WithArgs(input.UserID, input.VinylID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO reviews`).
		WithArgs(input.VinylID, input.UserID, input.Rating, input.Comment).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SubmitReview(context.Background(), input)
	require.NoError(t, err)

	// Test case 2: Pair already reviewed, caught by the pre-check
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(input.UserID, input.VinylID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err = repo.SubmitReview(context.Background(), input)
	var duplicate *domain.ErrDuplicateReview
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, input.UserID, duplicate.UserID)
	assert.Equal(t, input.VinylID, duplicate.VinylID)

	// Test case 3: Pre-check raced, the composite key still wins
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(input.UserID, input.VinylID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO reviews`).
		WillReturnError(&pq.Error{Code: "23505"})

	err = repo.SubmitReview(context.Background(), input)
	require.ErrorAs(t, err, &duplicate)

	// Test case 4: Out-of-range rating never reaches the database
	bad := input
	bad.Rating = 6
	err = repo.SubmitReview(context.Background(), bad)
	var validation domain.ValidationError
	require.ErrorAs(t, err, &validation)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReview(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))
	reviewDate := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	// Test case 1: Review exists
	mock.ExpectQuery(`SELECT rating, comment, review_date FROM reviews`).
		WithArgs(int64(3), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"rating", "comment", "review_date"}).
			AddRow(4, "Great pressing", reviewDate))

	view, err := repo.GetReview(context.Background(), 3, 5)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, 4, view.Rating)
	assert.Equal(t, int64(3), view.UserID)

	// Test case 2: No review for the pair is a nil result, not an error
	mock.ExpectQuery(`SELECT rating, comment, review_date FROM reviews`).
		WithArgs(int64(3), int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"rating", "comment", "review_date"}))

	view, err = repo.GetReview(context.Background(), 3, 99)
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestDeleteReview(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))

	// Test case 1: Review deleted
	mock.ExpectExec(`DELETE FROM reviews WHERE user_id = \$1 AND vinyl_id = \$2`).
		WithArgs(int64(3), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteReview(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Test case 2: Nothing to delete reports false without an error
	mock.ExpectExec(`DELETE FROM reviews`).
		WithArgs(int64(3), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err = repo.DeleteReview(context.Background(), 3, 99)
	require.NoError(t, err)
	assert.False(t, deleted)
}
