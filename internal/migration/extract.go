package migration

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vinylvault/vinylvault/internal/domain"
)

// snapshot is the full relational data set read at the start of a migration.
type snapshot struct {
	Artists   map[int64]domain.Artist
	Vinyls    []domain.Vinyl
	Users     []domain.User
	Admins    map[int64]string // user id -> department
	Customers map[int64]string // user id -> address
	Orders    []domain.Order
	Lines     map[int64][]domain.OrderLine // order id -> lines
	Reviews   []domain.Review
}

// extract bulk-reads every source entity set. The reads are independent and
// run concurrently on the connection pool.
func extract(ctx context.Context, db *sql.DB) (*snapshot, error) {
	snap := &snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Artists, err = fetchArtists(ctx, db)
		return err
	})
	g.Go(func() (err error) {
		snap.Vinyls, err = fetchVinyls(ctx, db)
		return err
	})
	g.Go(func() (err error) {
		snap.Users, err = fetchUsers(ctx, db)
		return err
	})
	g.Go(func() (err error) {
		snap.Admins, err = fetchRoleDetails(ctx, db, `SELECT user_id, department FROM admins`)
		return err
	})
	g.Go(func() (err error) {
		snap.Customers, err = fetchRoleDetails(ctx, db, `SELECT user_id, address FROM customers`)
		return err
	})
	g.Go(func() (err error) {
		snap.Orders, err = fetchOrders(ctx, db)
		return err
	})
	g.Go(func() (err error) {
		snap.Lines, err = fetchOrderLines(ctx, db)
		return err
	})
	g.Go(func() (err error) {
		snap.Reviews, err = fetchReviews(ctx, db)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func fetchArtists(ctx context.Context, db *sql.DB) (map[int64]domain.Artist, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, nationality FROM artists`)
	if err != nil {
		return nil, fmt.Errorf("failed to read artists: %w", err)
	}
	defer rows.Close()

	artists := make(map[int64]domain.Artist)
	for rows.Next() {
		var artist domain.Artist
		if err := rows.Scan(&artist.ID, &artist.Name, &artist.Nationality); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists[artist.ID] = artist
	}
	return artists, rows.Err()
}

func fetchVinyls(ctx context.Context, db *sql.DB) ([]domain.Vinyl, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, artist_id, title, price, release_date, cover_image, genre
		FROM vinyls
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read vinyls: %w", err)
	}
	defer rows.Close()

	var vinyls []domain.Vinyl
	for rows.Next() {
		var vinyl domain.Vinyl
		err := rows.Scan(
			&vinyl.ID, &vinyl.ArtistID, &vinyl.Title, &vinyl.Price,
			&vinyl.ReleaseDate, &vinyl.CoverImage, &vinyl.Genre,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vinyl: %w", err)
		}
		vinyls = append(vinyls, vinyl)
	}
	return vinyls, rows.Err()
}

func fetchUsers(ctx context.Context, db *sql.DB) ([]domain.User, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, email, password FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Password); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func fetchRoleDetails(ctx context.Context, db *sql.DB, query string) (map[int64]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read role details: %w", err)
	}
	defer rows.Close()

	details := make(map[int64]string)
	for rows.Next() {
		var (
			userID int64
			detail string
		)
		if err := rows.Scan(&userID, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan role detail: %w", err)
		}
		details[userID] = detail
	}
	return details, rows.Err()
}

func fetchOrders(ctx context.Context, db *sql.DB) ([]domain.Order, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, order_date, payment_method, total_price
		FROM orders
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID, &order.UserID, &order.OrderDate,
			&order.PaymentMethod, &order.TotalPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func fetchOrderLines(ctx context.Context, db *sql.DB) (map[int64][]domain.OrderLine, error) {
	rows, err := db.QueryContext(ctx, `SELECT order_id, vinyl_id, amount FROM order_lines`)
	if err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[int64][]domain.OrderLine)
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.OrderID, &line.VinylID, &line.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines[line.OrderID] = append(lines[line.OrderID], line)
	}
	return lines, rows.Err()
}

func fetchReviews(ctx context.Context, db *sql.DB) ([]domain.Review, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT vinyl_id, user_id, rating, comment, review_date
		FROM reviews
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		err := rows.Scan(
			&review.VinylID, &review.UserID, &review.Rating,
			&review.Comment, &review.ReviewDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
