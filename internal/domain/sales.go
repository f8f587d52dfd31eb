package domain

import "time"

// DateRange bounds an aggregation window. Nil ends mean unbounded.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// SalesFilter holds the optional sales overview filters. Empty strings and
// nil dates mean "match all".
type SalesFilter struct {
	ArtistName string
	Genre      string
	Window     DateRange
}

// SalesSummaryRow is one per-genre row of the sales aggregation, ordered by
// purchase count descending.
type SalesSummaryRow struct {
	Genre         string  `json:"genre" bson:"genre"`
	VinylCount    int     `json:"vinyl_count" bson:"vinyl_count"`
	TotalPurchase int     `json:"total_purchase" bson:"total_purchase"`
	TotalRevenue  float64 `json:"total_revenue" bson:"total_revenue"`
}

// SalesDetailRow is one per-vinyl row of the sales aggregation.
type SalesDetailRow struct {
	Title        string  `json:"vinyl_title" bson:"title"`
	ArtistName   string  `json:"artist_name" bson:"artist_name"`
	Genre        string  `json:"genre" bson:"genre"`
	TotalSales   int     `json:"total_sales" bson:"total_sales"`
	TotalRevenue float64 `json:"total_revenue" bson:"total_revenue"`
}
