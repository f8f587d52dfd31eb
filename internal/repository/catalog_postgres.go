package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/vinylvault/vinylvault/internal/domain"
)

const searchResultCap = 20

func (r *postgresStore) ListVinyls(ctx context.Context, limit int) ([]*domain.VinylView, error) {
	query := `
		SELECT` + vinylViewColumns + `
		FROM vinyls v
		JOIN artists a ON v.artist_id = a.id
		ORDER BY random()
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list vinyls: %w", err)
	}

	views, err := collectVinylViews(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan vinyls: %w", err)
	}
	return views, nil
}

func (r *postgresStore) SearchVinyls(ctx context.Context, query string) ([]*domain.VinylView, error) {
	stmt := `
		SELECT` + vinylViewColumns + `
		FROM vinyls v
		JOIN artists a ON v.artist_id = a.id
		WHERE v.title ILIKE $1 OR a.name ILIKE $1 OR v.genre ILIKE $1
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, stmt, "%"+query+"%", searchResultCap)
	if err != nil {
		return nil, fmt.Errorf("failed to search vinyls: %w", err)
	}

	views, err := collectVinylViews(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan vinyls: %w", err)
	}
	return views, nil
}

func (r *postgresStore) AdminSearchVinyls(ctx context.Context, filter domain.CatalogFilter) ([]*domain.VinylView, []string, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select(
		"v.id", "v.title", "v.price", "v.cover_image", "v.release_date", "v.genre",
		"a.id", "a.name", "a.nationality",
	).
		From("vinyls v").
		Join("artists a ON v.artist_id = a.id")

	if filter.Genre != "" {
		builder = builder.Where(sq.ILike{"v.genre": "%" + filter.Genre + "%"})
	}
	if filter.Artist != "" {
		builder = builder.Where(sq.ILike{"a.name": "%" + filter.Artist + "%"})
	}
	if min, ok := filter.MinPriceValue(); ok {
		builder = builder.Where(sq.GtOrEq{"v.price": min})
	}
	if max, ok := filter.MaxPriceValue(); ok {
		builder = builder.Where(sq.LtOrEq{"v.price": max})
	}
	if id, ok := filter.VinylIDValue(); ok {
		builder = builder.Where(sq.Eq{"v.id": id})
	}

	stmt, args, err := builder.ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build admin search query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search vinyls: %w", err)
	}

	views, err := collectVinylViews(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan vinyls: %w", err)
	}

	genres, err := r.distinctGenres(ctx)
	if err != nil {
		return nil, nil, err
	}

	return views, genres, nil
}

func (r *postgresStore) distinctGenres(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT genre FROM vinyls ORDER BY genre`)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating genre rows: %w", err)
	}
	return genres, nil
}

func (r *postgresStore) InsertVinyl(ctx context.Context, input domain.VinylInput) (int64, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO vinyls (artist_id, title, price, release_date, cover_image, genre)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		input.ArtistID,
		input.Title,
		input.Price,
		input.ReleaseDate,
		input.CoverImage,
		input.Genre,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, &domain.ErrNotFound{Entity: "artist", ID: input.ArtistID}
		}
		return 0, &domain.ErrWriteFailed{Op: "insert vinyl", Err: err}
	}

	return id, nil
}

func (r *postgresStore) DeleteVinyl(ctx context.Context, vinylID int64) error {
	// Reviews referencing the vinyl are removed by the schema's cascade.
	result, err := r.db.ExecContext(ctx, `DELETE FROM vinyls WHERE id = $1`, vinylID)
	if err != nil {
		return &domain.ErrWriteFailed{Op: "delete vinyl", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "vinyl", ID: vinylID}
	}
	return nil
}
