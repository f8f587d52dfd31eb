package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/vinylvault/vinylvault/internal/domain"
)

func (r *postgresStore) RatingsSummary(ctx context.Context, window domain.DateRange) ([]*domain.VinylRatingSummary, error) {
	query := `
		SELECT
			v.id,
			v.title,
			v.genre,
			a.name,
			COUNT(r.rating) AS amount_reviews,
			ROUND(AVG(r.rating)::numeric, 2) AS average_rating,
			COUNT(*) FILTER (WHERE r.rating = 1) AS stars_1,
			COUNT(*) FILTER (WHERE r.rating = 2) AS stars_2,
			COUNT(*) FILTER (WHERE r.rating = 3) AS stars_3,
			COUNT(*) FILTER (WHERE r.rating = 4) AS stars_4,
			COUNT(*) FILTER (WHERE r.rating = 5) AS stars_5,
			json_agg(json_build_object(
				'user_id', r.user_id,
				'rating', r.rating,
				'review_text', r.comment,
				'review_date', to_char(r.review_date, 'YYYY-MM-DD')
			)) AS reviews
		FROM vinyls v
		JOIN reviews r ON v.id = r.vinyl_id
		JOIN artists a ON v.artist_id = a.id
		WHERE ($1::date IS NULL OR r.review_date >= $1)
		  AND ($2::date IS NULL OR r.review_date <= $2)
		GROUP BY v.id, v.title, v.genre, a.name
		HAVING COUNT(r.rating) > 0
		ORDER BY average_rating DESC, amount_reviews DESC
	`

	rows, err := r.db.QueryContext(ctx, query, nullTime(window.Start), nullTime(window.End))
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings summary: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.VinylRatingSummary
	for rows.Next() {
		var (
			summary     domain.VinylRatingSummary
			reviewsJSON []byte
		)
		err := rows.Scan(
			&summary.VinylID,
			&summary.Title,
			&summary.Genre,
			&summary.ArtistName,
			&summary.ReviewCount,
			&summary.AverageRating,
			&summary.Stars1,
			&summary.Stars2,
			&summary.Stars3,
			&summary.Stars4,
			&summary.Stars5,
			&reviewsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ratings summary row: %w", err)
		}
		if err := json.Unmarshal(reviewsJSON, &summary.Reviews); err != nil {
			return nil, fmt.Errorf("failed to decode review list: %w", err)
		}
		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings summary rows: %w", err)
	}

	return summaries, nil
}

func (r *postgresStore) SalesOverview(ctx context.Context, filter domain.SalesFilter) ([]*domain.SalesSummaryRow, []*domain.SalesDetailRow, error) {
	summary, err := r.salesSummary(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	details, err := r.salesDetails(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return summary, details, nil
}

// salesBase is the joined fact set shared by both sales aggregations.
func salesBase(filter domain.SalesFilter) sq.SelectBuilder {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select().
		From("vinyls v").
		Join("artists a ON v.artist_id = a.id").
		Join("order_lines ol ON v.id = ol.vinyl_id").
		Join("orders o ON ol.order_id = o.id")

	if filter.ArtistName != "" {
		builder = builder.Where(sq.Eq{"a.name": filter.ArtistName})
	}
	if filter.Genre != "" {
		builder = builder.Where(sq.Eq{"v.genre": filter.Genre})
	}
	if filter.Window.Start != nil {
		builder = builder.Where(sq.GtOrEq{"o.order_date": *filter.Window.Start})
	}
	if filter.Window.End != nil {
		builder = builder.Where(sq.LtOrEq{"o.order_date": *filter.Window.End})
	}
	return builder
}

func (r *postgresStore) salesSummary(ctx context.Context, filter domain.SalesFilter) ([]*domain.SalesSummaryRow, error) {
	stmt, args, err := salesBase(filter).
		Columns(
			"v.genre",
			"COUNT(DISTINCT v.id) AS vinyl_count",
			"SUM(ol.amount) AS total_purchase",
			"SUM(ol.amount * v.price) AS total_revenue",
		).
		GroupBy("v.genre").
		OrderBy("total_purchase DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sales summary query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales summary: %w", err)
	}
	defer rows.Close()

	var summary []*domain.SalesSummaryRow
	for rows.Next() {
		var row domain.SalesSummaryRow
		if err := rows.Scan(&row.Genre, &row.VinylCount, &row.TotalPurchase, &row.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan sales summary row: %w", err)
		}
		summary = append(summary, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales summary rows: %w", err)
	}
	return summary, nil
}

func (r *postgresStore) salesDetails(ctx context.Context, filter domain.SalesFilter) ([]*domain.SalesDetailRow, error) {
	stmt, args, err := salesBase(filter).
		Columns(
			"v.title",
			"a.name",
			"v.genre",
			"SUM(ol.amount) AS total_sales",
			"SUM(ol.amount * v.price) AS total_revenue",
		).
		GroupBy("v.id", "v.title", "a.name", "v.genre").
		OrderBy("total_sales DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sales detail query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales details: %w", err)
	}
	defer rows.Close()

	var details []*domain.SalesDetailRow
	for rows.Next() {
		var row domain.SalesDetailRow
		if err := rows.Scan(&row.Title, &row.ArtistName, &row.Genre, &row.TotalSales, &row.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan sales detail row: %w", err)
		}
		details = append(details, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales detail rows: %w", err)
	}
	return details, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
