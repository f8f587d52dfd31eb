package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/internal/repository/testutil"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

var ratingsColumns = []string{
	"id", "title", "genre", "name", "amount_reviews", "average_rating",
	"stars_1", "stars_2", "stars_3", "stars_4", "stars_5", "reviews",
}

func TestRatingsSummary(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))

	reviewsJSON := `[
		{"user_id": 3, "rating": 5, "review_text": "Stunning", "review_date": "2026-01-10"},
		{"user_id": 4, "rating": 4, "review_text": "Very good", "review_date": "2026-02-01"}
	]`

	rows := sqlmock.NewRows(ratingsColumns).
		AddRow(5, "Neon Archive", "Synthwave", "Cassette Future", 2, 4.5,
			0, 0, 0, 1, 1, []byte(reviewsJSON))

	mock.ExpectQuery(`GROUP BY v.id, v.title, v.genre, a.name HAVING COUNT\(r.rating\) > 0 ORDER BY average_rating DESC, amount_reviews DESC`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	summaries, err := repo.RatingsSummary(context.Background(), domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	summary := summaries[0]
	assert.Equal(t, int64(5), summary.VinylID)
	assert.Equal(t, "Neon Archive", summary.Title)
	assert.Equal(t, 2, summary.ReviewCount)
	assert.Equal(t, 4.5, summary.AverageRating)
	assert.Equal(t, 1, summary.Stars4)
	assert.Equal(t, 1, summary.Stars5)
	require.Len(t, summary.Reviews, 2)
	assert.Equal(t, int64(3), summary.Reviews[0].UserID)
	assert.Equal(t, "Stunning", summary.Reviews[0].ReviewText)
	assert.Equal(t, "2026-01-10", summary.Reviews[0].ReviewDate)
}

func TestSalesOverview(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	filter := domain.SalesFilter{
		Genre:  "Synthwave",
		Window: domain.DateRange{Start: &start},
	}

	// Both aggregations run over the same joined fact set with the same
	// filters bound.
	summaryRows := sqlmock.NewRows([]string{"genre", "vinyl_count", "total_purchase", "total_revenue"}).
		AddRow("Synthwave", 2, 7, 164.43)
	mock.ExpectQuery(`SELECT v.genre, COUNT\(DISTINCT v.id\) AS vinyl_count, SUM\(ol.amount\) AS total_purchase`).
		WithArgs("Synthwave", start).
		WillReturnRows(summaryRows)

	detailRows := sqlmock.NewRows([]string{"title", "name", "genre", "total_sales", "total_revenue"}).
		AddRow("Neon Archive", "Cassette Future", "Synthwave", 4, 89.96).
		AddRow("Midnight Terminal", "Cassette Future", "Synthwave", 3, 75.00)
	mock.ExpectQuery(`SELECT v.title, a.name, v.genre, SUM\(ol.amount\) AS total_sales`).
		WithArgs("Synthwave", start).
		WillReturnRows(detailRows)

	summary, details, err := repo.SalesOverview(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, "Synthwave", summary[0].Genre)
	assert.Equal(t, 7, summary[0].TotalPurchase)
	require.Len(t, details, 2)
	assert.Equal(t, "Neon Archive", details[0].Title)
	assert.Equal(t, 4, details[0].TotalSales)

	require.NoError(t, mock.ExpectationsWereMet())
}
