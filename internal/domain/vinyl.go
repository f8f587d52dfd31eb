package domain

import (
	"strconv"
	"strings"
	"time"
)

// Artist is a row in the relational artists table.
type Artist struct {
	ID          int64
	Name        string
	Nationality string
}

// Vinyl is a row in the relational vinyls table.
type Vinyl struct {
	ID          int64
	ArtistID    int64
	Title       string
	Price       float64
	ReleaseDate time.Time
	CoverImage  string
	Genre       string
}

// VinylInput carries the fields for a catalogue insert.
type VinylInput struct {
	ArtistID    int64
	Title       string
	Price       float64
	ReleaseDate time.Time
	CoverImage  string
	Genre       string
}

// Validate checks the insert fields before they reach a store.
func (i *VinylInput) Validate() error {
	if i.ArtistID <= 0 {
		return NewValidationError("artist id is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return NewValidationError("title is required")
	}
	if i.Price < 0 {
		return NewValidationError("price must not be negative")
	}
	if strings.TrimSpace(i.Genre) == "" {
		return NewValidationError("genre is required")
	}
	if i.ReleaseDate.IsZero() {
		return NewValidationError("release date is required")
	}
	return nil
}

// VinylView is the flattened vinyl+artist shape both backends return.
type VinylView struct {
	VinylID     int64     `json:"vinyl_id"`
	Title       string    `json:"vinyl_title"`
	Price       float64   `json:"price"`
	CoverImage  string    `json:"cover_image"`
	ReleaseDate time.Time `json:"release_date"`
	Genre       string    `json:"genre"`
	ArtistID    int64     `json:"artist_id"`
	ArtistName  string    `json:"artist_name"`
	Nationality string    `json:"nationality"`
}

// CatalogFilter holds the optional admin search filters. Price and ID values
// arrive as raw request strings; a value that does not parse as a number
// means "no filter", never an error.
type CatalogFilter struct {
	Genre    string
	Artist   string
	MinPrice string
	MaxPrice string
	VinylID  string
}

// MinPriceValue returns the parsed minimum price filter, or ok=false when
// the filter is absent or malformed.
func (f *CatalogFilter) MinPriceValue() (float64, bool) {
	return parsePrice(f.MinPrice)
}

// MaxPriceValue returns the parsed maximum price filter, or ok=false when
// the filter is absent or malformed.
func (f *CatalogFilter) MaxPriceValue() (float64, bool) {
	return parsePrice(f.MaxPrice)
}

// VinylIDValue returns the parsed vinyl id filter, or ok=false when the
// filter is absent or malformed.
func (f *CatalogFilter) VinylIDValue() (int64, bool) {
	s := strings.TrimSpace(f.VinylID)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func parsePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ArtistDocument is the artist sub-document embedded in a vinyl document.
type ArtistDocument struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"name"`
	Nationality string `bson:"nationality"`
}

// VinylDocument is the self-contained vinyl shape in the document store.
type VinylDocument struct {
	ID          int64          `bson:"_id"`
	Title       string         `bson:"title"`
	Price       float64        `bson:"price"`
	ReleaseDate time.Time      `bson:"release_date"`
	CoverImage  string         `bson:"cover_image"`
	Genre       string         `bson:"genre"`
	Artist      ArtistDocument `bson:"artist"`
}

// View flattens a vinyl document into the shared read shape.
func (d *VinylDocument) View() *VinylView {
	return &VinylView{
		VinylID:     d.ID,
		Title:       d.Title,
		Price:       d.Price,
		CoverImage:  d.CoverImage,
		ReleaseDate: d.ReleaseDate,
		Genre:       d.Genre,
		ArtistID:    d.Artist.ID,
		ArtistName:  d.Artist.Name,
		Nationality: d.Artist.Nationality,
	}
}
