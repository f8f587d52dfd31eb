package domain

import "time"

// Payment methods accepted on an order.
const (
	PaymentApplePay   = "ApplePay"
	PaymentKlarna     = "Klarna"
	PaymentCreditCard = "CreditCard"
)

// ReferralDiscountFactor is applied to an order total when the buyer holds a
// pending referral credit.
const ReferralDiscountFactor = 0.931

// Order is a row in the relational orders table. TotalPrice is derived from
// the order's lines and is recomputed by the relational adapter on every
// line mutation, never set directly by callers.
type Order struct {
	ID            int64
	UserID        int64
	OrderDate     time.Time
	PaymentMethod string
	TotalPrice    float64
}

// OrderLine is a row in the relational order_lines table, keyed by
// (order_id, vinyl_id).
type OrderLine struct {
	OrderID int64
	VinylID int64
	Amount  int
}

// Referral is a pending-discount counter: the next order placed by UserID
// while Count > 0 is discounted and the counter decrements by one.
type Referral struct {
	UserID         int64
	ReferredUserID int64
	Count          int
}

// OrderLineView is a line entry in an order history read, carrying the
// vinyl/artist snapshot.
type OrderLineView struct {
	VinylID     int64   `json:"vinyl_id"`
	Title       string  `json:"vinyl_title"`
	Price       float64 `json:"price"`
	CoverImage  string  `json:"cover_image"`
	Amount      int     `json:"amount"`
	Genre       string  `json:"genre"`
	ArtistName  string  `json:"artist_name"`
	Nationality string  `json:"nationality"`
}

// OrderView is one order in a user's order history.
type OrderView struct {
	OrderID       int64           `json:"order_id"`
	OrderDate     time.Time       `json:"order_date"`
	PaymentMethod string          `json:"payment_method"`
	TotalPrice    float64         `json:"total_price"`
	Lines         []OrderLineView `json:"vinyls"`
}

// VinylSnapshot is the denormalized vinyl state captured inside an order
// line at order (or migration) time, decoupled from future vinyl edits.
type VinylSnapshot struct {
	Title      string  `bson:"title"`
	Price      float64 `bson:"price"`
	CoverImage string  `bson:"cover_image"`
	Genre      string  `bson:"genre"`
}

// ArtistSnapshot is the denormalized artist state inside an order line.
type ArtistSnapshot struct {
	Name        string `bson:"name"`
	Nationality string `bson:"nationality"`
}

// OrderLineDocument is a line entry embedded in an order document.
type OrderLineDocument struct {
	VinylID int64          `bson:"vinyl_id"`
	Amount  int            `bson:"amount"`
	Vinyl   VinylSnapshot  `bson:"vinyl"`
	Artist  ArtistSnapshot `bson:"artist"`
}

// OrderDocument is the self-contained order shape in the document store.
type OrderDocument struct {
	ID            int64               `bson:"_id"`
	UserID        int64               `bson:"user_id"`
	OrderDate     time.Time           `bson:"order_date"`
	PaymentMethod string              `bson:"payment_method"`
	TotalPrice    float64             `bson:"total_price"`
	Lines         []OrderLineDocument `bson:"lines"`
}

// View flattens an order document into the shared history shape.
func (d *OrderDocument) View() *OrderView {
	view := &OrderView{
		OrderID:       d.ID,
		OrderDate:     d.OrderDate,
		PaymentMethod: d.PaymentMethod,
		TotalPrice:    d.TotalPrice,
		Lines:         make([]OrderLineView, 0, len(d.Lines)),
	}
	for _, line := range d.Lines {
		view.Lines = append(view.Lines, OrderLineView{
			VinylID:     line.VinylID,
			Title:       line.Vinyl.Title,
			Price:       line.Vinyl.Price,
			CoverImage:  line.Vinyl.CoverImage,
			Amount:      line.Amount,
			Genre:       line.Vinyl.Genre,
			ArtistName:  line.Artist.Name,
			Nationality: line.Artist.Nationality,
		})
	}
	return view
}
