package domain

import (
	"strings"
	"time"
)

// Review is keyed by (vinyl_id, user_id): at most one review per pair on
// both backends.
type Review struct {
	VinylID    int64
	UserID     int64
	Rating     int
	Comment    string
	ReviewDate time.Time
}

// ReviewInput carries the fields for a review submission.
type ReviewInput struct {
	UserID  int64
	VinylID int64
	Rating  int
	Comment string
}

// Validate checks the submission before it reaches a store.
func (i *ReviewInput) Validate() error {
	if i.UserID <= 0 {
		return NewValidationError("user id is required")
	}
	if i.VinylID <= 0 {
		return NewValidationError("vinyl id is required")
	}
	if i.Rating < 0 || i.Rating > 5 {
		return NewValidationError("rating must be between 0 and 5")
	}
	if strings.TrimSpace(i.Comment) == "" {
		return NewValidationError("comment is required")
	}
	return nil
}

// ReviewView is a single review read.
type ReviewView struct {
	UserID     int64     `json:"user_id,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `json:"review_date"`
}

// ReviewEntry is one review inside a rating summary row.
type ReviewEntry struct {
	UserID     int64  `json:"user_id" bson:"user_id"`
	Rating     int    `json:"rating" bson:"rating"`
	ReviewText string `json:"review_text" bson:"review_text"`
	ReviewDate string `json:"review_date" bson:"review_date"`
}

// VinylRatingSummary is one row of the rating aggregation: per-star counts,
// the average rounded to two decimals and the contributing reviews.
type VinylRatingSummary struct {
	VinylID       int64         `json:"vinyl_id" bson:"_id"`
	Title         string        `json:"vinyl_title" bson:"title"`
	Genre         string        `json:"genre" bson:"genre"`
	ArtistName    string        `json:"artist_name" bson:"artist_name"`
	ReviewCount   int           `json:"amount_reviews" bson:"amount_reviews"`
	AverageRating float64       `json:"average_rating" bson:"average_rating"`
	Stars1        int           `json:"stars_1" bson:"stars_1"`
	Stars2        int           `json:"stars_2" bson:"stars_2"`
	Stars3        int           `json:"stars_3" bson:"stars_3"`
	Stars4        int           `json:"stars_4" bson:"stars_4"`
	Stars5        int           `json:"stars_5" bson:"stars_5"`
	Reviews       []ReviewEntry `json:"reviews" bson:"reviews"`
}

// ReviewDocument is the flat review shape in the document store. Uniqueness
// of (user_id, vinyl_id) is enforced by a secondary index.
type ReviewDocument struct {
	UserID     int64     `bson:"user_id"`
	VinylID    int64     `bson:"vinyl_id"`
	Rating     int       `bson:"rating"`
	Comment    string    `bson:"comment"`
	ReviewDate time.Time `bson:"review_date"`
}
