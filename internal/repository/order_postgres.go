package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vinylvault/vinylvault/internal/domain"
)

func (r *postgresStore) OrdersForUser(ctx context.Context, userID int64) ([]*domain.OrderView, error) {
	query := `
		SELECT
			o.id, o.order_date, o.payment_method, o.total_price,
			v.id, v.title, v.price, v.cover_image, v.genre,
			a.name, a.nationality,
			ol.amount
		FROM orders o
		JOIN order_lines ol ON o.id = ol.order_id
		JOIN vinyls v ON ol.vinyl_id = v.id
		JOIN artists a ON v.artist_id = a.id
		WHERE o.user_id = $1
		ORDER BY o.order_date DESC, o.id, v.title
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	defer rows.Close()

	var views []*domain.OrderView
	byID := make(map[int64]*domain.OrderView)
	for rows.Next() {
		var (
			order domain.OrderView
			line  domain.OrderLineView
		)
		err := rows.Scan(
			&order.OrderID, &order.OrderDate, &order.PaymentMethod, &order.TotalPrice,
			&line.VinylID, &line.Title, &line.Price, &line.CoverImage, &line.Genre,
			&line.ArtistName, &line.Nationality,
			&line.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}

		view, ok := byID[order.OrderID]
		if !ok {
			view = &order
			byID[order.OrderID] = view
			views = append(views, view)
		}
		view.Lines = append(view.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	return views, nil
}

func (r *postgresStore) BuyVinyl(ctx context.Context, userID, vinylID int64, amount int) (int64, error) {
	if amount <= 0 {
		return 0, domain.NewValidationError("amount must be positive")
	}

	var price float64
	err := r.db.QueryRowContext(ctx, `SELECT price FROM vinyls WHERE id = $1`, vinylID).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, &domain.ErrNotFound{Entity: "vinyl", ID: vinylID}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up vinyl: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, order_date, payment_method, total_price)
		VALUES ($1, CURRENT_DATE, $2, 0)
		RETURNING id
	`, userID, domain.PaymentCreditCard).Scan(&orderID)
	if err != nil {
		return 0, &domain.ErrWriteFailed{Op: "insert order", Err: err}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_lines (order_id, vinyl_id, amount)
		VALUES ($1, $2, $3)
	`, orderID, vinylID, amount)
	if err != nil {
		return 0, &domain.ErrWriteFailed{Op: "insert order line", Err: err}
	}

	if err := recomputeOrderTotal(ctx, tx, orderID); err != nil {
		return 0, &domain.ErrWriteFailed{Op: "recompute order total", Err: err}
	}

	if err := applyReferralDiscount(ctx, tx, userID, orderID); err != nil {
		return 0, &domain.ErrWriteFailed{Op: "apply referral discount", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &domain.ErrWriteFailed{Op: "commit order", Err: err}
	}

	return orderID, nil
}

// recomputeOrderTotal derives total_price from the order's lines. It runs
// inside the same transaction as every line mutation, keeping the total
// consistent with Σ price×amount at all times.
func recomputeOrderTotal(ctx context.Context, tx *sql.Tx, orderID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET total_price = (
			SELECT COALESCE(SUM(v.price * ol.amount), 0)
			FROM order_lines ol
			JOIN vinyls v ON ol.vinyl_id = v.id
			WHERE ol.order_id = $1
		)
		WHERE id = $1
	`, orderID)
	return err
}

// applyReferralDiscount consumes one pending referral credit, if any. When
// a user holds several referral rows with credit, the one with the lowest
// referred user id is decremented first.
func applyReferralDiscount(ctx context.Context, tx *sql.Tx, userID, orderID int64) error {
	var referredUserID int64
	err := tx.QueryRowContext(ctx, `
		SELECT referred_user_id FROM referrals
		WHERE user_id = $1 AND count > 0
		ORDER BY referred_user_id
		LIMIT 1
		FOR UPDATE
	`, userID).Scan(&referredUserID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET total_price = ROUND(total_price * $2, 2)
		WHERE id = $1
	`, orderID, domain.ReferralDiscountFactor)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE referrals
		SET count = count - 1
		WHERE user_id = $1 AND referred_user_id = $2
	`, userID, referredUserID)
	return err
}
