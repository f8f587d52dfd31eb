package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vinylvault/vinylvault/internal/domain"
)

func (r *postgresStore) SubmitReview(ctx context.Context, input domain.ReviewInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id = $1 AND vinyl_id = $2)
	`, input.UserID, input.VinylID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for existing review: %w", err)
	}
	if exists {
		return &domain.ErrDuplicateReview{UserID: input.UserID, VinylID: input.VinylID}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reviews (vinyl_id, user_id, rating, comment, review_date)
		VALUES ($1, $2, $3, $4, CURRENT_DATE)
	`, input.VinylID, input.UserID, input.Rating, input.Comment)
	if err != nil {
		// The composite key closes the pre-check race.
		if isUniqueViolation(err) {
			return &domain.ErrDuplicateReview{UserID: input.UserID, VinylID: input.VinylID}
		}
		return &domain.ErrWriteFailed{Op: "insert review", Err: err}
	}

	return nil
}

func (r *postgresStore) GetReview(ctx context.Context, userID, vinylID int64) (*domain.ReviewView, error) {
	var view domain.ReviewView
	err := r.db.QueryRowContext(ctx, `
		SELECT rating, comment, review_date
		FROM reviews
		WHERE user_id = $1 AND vinyl_id = $2
	`, userID, vinylID).Scan(&view.Rating, &view.Comment, &view.ReviewDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	view.UserID = userID
	return &view, nil
}

func (r *postgresStore) DeleteReview(ctx context.Context, userID, vinylID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM reviews WHERE user_id = $1 AND vinyl_id = $2
	`, userID, vinylID)
	if err != nil {
		return false, &domain.ErrWriteFailed{Op: "delete review", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}
