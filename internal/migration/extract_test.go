package migration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The fetches run concurrently, so expectation order must not matter.
	mock.MatchExpectationsInOrder(false)

	release := time.Date(2018, 6, 15, 0, 0, 0, 0, time.UTC)
	orderDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, name, nationality FROM artists`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "nationality"}).
			AddRow(4, "Cassette Future", "Swedish"))
	mock.ExpectQuery(`SELECT id, artist_id, title, price, release_date, cover_image, genre FROM vinyls`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "artist_id", "title", "price", "release_date", "cover_image", "genre"}).
			AddRow(5, 4, "Neon Archive", 22.49, release, "/covers/5.jpg", "Synthwave"))
	mock.ExpectQuery(`SELECT id, name, email, password FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(3, "Demo Customer", "customer@vinylvault.test", "hash"))
	mock.ExpectQuery(`SELECT user_id, department FROM admins`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "department"}))
	mock.ExpectQuery(`SELECT user_id, address FROM customers`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "address"}).
			AddRow(3, "1 Demo Street"))
	mock.ExpectQuery(`SELECT id, user_id, order_date, payment_method, total_price FROM orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "order_date", "payment_method", "total_price"}).
			AddRow(10, 3, orderDate, "Klarna", 44.98))
	mock.ExpectQuery(`SELECT order_id, vinyl_id, amount FROM order_lines`).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "vinyl_id", "amount"}).
			AddRow(10, 5, 2))
	mock.ExpectQuery(`SELECT vinyl_id, user_id, rating, comment, review_date FROM reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"vinyl_id", "user_id", "rating", "comment", "review_date"}).
			AddRow(5, 3, 4, "Great pressing", orderDate))

	snap, err := extract(context.Background(), db)
	require.NoError(t, err)

	assert.Len(t, snap.Artists, 1)
	assert.Equal(t, "Cassette Future", snap.Artists[4].Name)
	require.Len(t, snap.Vinyls, 1)
	assert.Equal(t, "Neon Archive", snap.Vinyls[0].Title)
	require.Len(t, snap.Users, 1)
	assert.Empty(t, snap.Admins)
	assert.Equal(t, "1 Demo Street", snap.Customers[3])
	require.Len(t, snap.Orders, 1)
	require.Len(t, snap.Lines[10], 1)
	assert.Equal(t, 2, snap.Lines[10][0].Amount)
	require.Len(t, snap.Reviews, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractPropagatesFirstError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.MatchExpectationsInOrder(false)

	boom := errors.New("database error")
	for _, pattern := range []string{
		`FROM artists`, `FROM vinyls`, `FROM users`, `FROM admins`,
		`FROM customers`, `FROM orders`, `FROM order_lines`, `FROM reviews`,
	} {
		mock.ExpectQuery(pattern).WillReturnError(boom)
	}

	_, err = extract(context.Background(), db)
	require.Error(t, err)
}
