package repository

import (
	"context"
	"errors"
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

var vinylRowColumns = []string{
	"id", "title", "price", "cover_image", "release_date", "genre",
	"artist_id", "name", "nationality",
}

func TestListVinyls(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))
	release := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)

	// Test case 1: Rows come back in the sampled order
	rows := sqlmock.NewRows(vinylRowColumns).
		AddRow(2, "Neon Archive", 22.49, "/covers/5.jpg", release, "Synthwave", 4, "Cassette Future", "Swedish").
		AddRow(1, "Static Bloom", 24.99, "/covers/1.jpg", release, "Indie Rock", 3, "The Velvet Sundown", "British")

	mock.ExpectQuery(`SELECT (.+) FROM vinyls v JOIN artists a ON v.artist_id = a.id ORDER BY random\(\) LIMIT \$1`).
		WithArgs(9).
		WillReturnRows(rows)

	views, err := repo.ListVinyls(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, int64(2), views[0].VinylID)
	assert.Equal(t, "Neon Archive", views[0].Title)
	assert.Equal(t, "Cassette Future", views[0].ArtistName)
	assert.Equal(t, "Swedish", views[0].Nationality)

	// Test case 2: Query error
	mock.ExpectQuery(`SELECT (.+) FROM vinyls v`).
		WillReturnError(errors.New("database error"))

	views, err = repo.ListVinyls(context.Background(), 9)
	require.Error(t, err)
	assert.Nil(t, views)
	assert.Contains(t, err.Error(), "failed to list vinyls")
}

func TestSearchVinyls(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))
	release := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)

	// The search term is wrapped in wildcards and capped at 20 rows.
	rows := sqlmock.NewRows(vinylRowColumns).
		AddRow(7, "Calle Norte", 19.99, "/covers/7.jpg", release, "Latin", 5, "Los Faros", "Mexican")

	mock.ExpectQuery(`WHERE v.title ILIKE \$1 OR a.name ILIKE \$1 OR v.genre ILIKE \$1 LIMIT \$2`).
		WithArgs("%norte%", searchResultCap).
		WillReturnRows(rows)

	views, err := repo.SearchVinyls(context.Background(), "norte")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Calle Norte", views[0].Title)

	// No matches is an empty result, not an error.
	mock.ExpectQuery(`WHERE v.title ILIKE \$1`).
		WithArgs("%zzz%", searchResultCap).
		WillReturnRows(sqlmock.NewRows(vinylRowColumns))

	views, err = repo.SearchVinyls(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestAdminSearchVinyls(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))
	release := time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC)

	// Test case 1: Genre and min price filters applied
	rows := sqlmock.NewRows(vinylRowColumns).
		AddRow(11, "Autobahnlichter", 33.25, "/covers/11.jpg", release, "Electronic", 6, "Kleine Nacht", "German")

	mock.ExpectQuery(`SELECT (.+) FROM vinyls v JOIN artists a ON v.artist_id = a.id WHERE v.genre ILIKE \$1 AND v.price >= \$2`).
		WithArgs("%Electronic%", 30.0).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT DISTINCT genre FROM vinyls ORDER BY genre`).
		WillReturnRows(sqlmock.NewRows([]string{"genre"}).AddRow("Electronic").AddRow("Folk"))

	filter := domain.CatalogFilter{Genre: "Electronic", MinPrice: "30"}
	views, genres, err := repo.AdminSearchVinyls(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Autobahnlichter", views[0].Title)
	assert.Equal(t, []string{"Electronic", "Folk"}, genres)

	// Test case 2: Malformed numeric filters are ignored, not rejected
	mock.ExpectQuery(`SELECT (.+) FROM vinyls v JOIN artists a ON v.artist_id = a.id$`).
		WillReturnRows(sqlmock.NewRows(vinylRowColumns))
	mock.ExpectQuery(`SELECT DISTINCT genre FROM vinyls`).
		WillReturnRows(sqlmock.NewRows([]string{"genre"}))

	filter = domain.CatalogFilter{MinPrice: "not-a-number", VinylID: "abc"}
	_, _, err = repo.AdminSearchVinyls(context.Background(), filter)
	require.NoError(t, err)
}

func TestInsertVinyl(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))
	release := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	input := domain.VinylInput{
		ArtistID:    3,
		Title:       "Harmattan",
		Price:       29.99,
		ReleaseDate: release,
		CoverImage:  "/covers/4.jpg",
		Genre:       "Afrobeat",
	}

	// Test case 1: Successful insert returns the new id
	mock.ExpectQuery(`INSERT INTO vinyls`).
		WithArgs(input.ArtistID, input.Title, input.Price, input.ReleaseDate, input.CoverImage, input.Genre).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := repo.InsertVinyl(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	// Test case 2: Unknown artist surfaces as not found
	mock.ExpectQuery(`INSERT INTO vinyls`).
		WillReturnError(&pq.Error{Code: "23503"})

	_, err = repo.InsertVinyl(context.Background(), input)
	var notFound *domain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "artist", notFound.Entity)
	assert.Equal(t, int64(3), notFound.ID)

	// Test case 3: Invalid input never reaches the database
	_, err = repo.InsertVinyl(context.Background(), domain.VinylInput{ArtistID: 3})
	var validation domain.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestDeleteVinyl(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))

	// Test case 1: Existing vinyl deleted
	mock.ExpectExec(`DELETE FROM vinyls WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteVinyl(context.Background(), 7)
	require.NoError(t, err)

	// Test case 2: Missing vinyl is not found
	mock.ExpectExec(`DELETE FROM vinyls WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteVinyl(context.Background(), 99)
	var notFound *domain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.ID)
}
