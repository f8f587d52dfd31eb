package domain

import "fmt"

// Document store collection names.
const (
	CollectionVinyls   = "vinyls"
	CollectionUsers    = "users"
	CollectionOrders   = "orders"
	CollectionReviews  = "reviews"
	CollectionCounters = "counters"
)

// ValidationFailure records a single document rejected by a collection's
// declared schema during the bulk load. One bad document does not abort the
// rest of its collection.
type ValidationFailure struct {
	Collection string `json:"collection"`
	DocumentID int64  `json:"document_id"`
	Reason     string `json:"reason"`
}

func (f ValidationFailure) String() string {
	return fmt.Sprintf("%s[%d]: %s", f.Collection, f.DocumentID, f.Reason)
}

// MigrationReport aggregates what the migration engine inserted per
// collection, and which documents were dropped.
type MigrationReport struct {
	VinylsInserted  int                 `json:"vinyls_inserted"`
	UsersInserted   int                 `json:"users_inserted"`
	OrdersInserted  int                 `json:"orders_inserted"`
	ReviewsInserted int                 `json:"reviews_inserted"`
	Failures        []ValidationFailure `json:"failures,omitempty"`
}
