package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// postgresStore implements domain.Store against the normalized relational
// schema. All multi-table reads are explicit joins; aggregates are computed
// in-store. Connections come from the *sql.DB pool per call.
type postgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewPostgresStore creates the relational store adapter.
func NewPostgresStore(db *sql.DB, logger logger.Logger) domain.Store {
	return &postgresStore{
		db:     db,
		logger: logger,
	}
}

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// vinylViewColumns is the join shape shared by every catalogue read.
const vinylViewColumns = `
	v.id, v.title, v.price, v.cover_image, v.release_date, v.genre,
	a.id, a.name, a.nationality`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVinylView(s rowScanner) (*domain.VinylView, error) {
	var view domain.VinylView
	err := s.Scan(
		&view.VinylID,
		&view.Title,
		&view.Price,
		&view.CoverImage,
		&view.ReleaseDate,
		&view.Genre,
		&view.ArtistID,
		&view.ArtistName,
		&view.Nationality,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func collectVinylViews(rows *sql.Rows) ([]*domain.VinylView, error) {
	defer rows.Close()

	var views []*domain.VinylView
	for rows.Next() {
		view, err := scanVinylView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}
