package domain

import "context"

// Store is the full domain operation set. Both backend adapters implement
// it; the facade dispatches every call to whichever adapter is active.
type Store interface {
	// Catalogue
	ListVinyls(ctx context.Context, limit int) ([]*VinylView, error)
	SearchVinyls(ctx context.Context, query string) ([]*VinylView, error)
	AdminSearchVinyls(ctx context.Context, filter CatalogFilter) ([]*VinylView, []string, error)
	InsertVinyl(ctx context.Context, input VinylInput) (int64, error)
	DeleteVinyl(ctx context.Context, vinylID int64) error

	// Accounts
	Authenticate(ctx context.Context, creds Credentials) (*Identity, error)
	ListUsers(ctx context.Context) ([]*UserAccount, error)

	// Orders
	OrdersForUser(ctx context.Context, userID int64) ([]*OrderView, error)
	BuyVinyl(ctx context.Context, userID, vinylID int64, amount int) (int64, error)

	// Reviews
	SubmitReview(ctx context.Context, input ReviewInput) error
	GetReview(ctx context.Context, userID, vinylID int64) (*ReviewView, error)
	DeleteReview(ctx context.Context, userID, vinylID int64) (bool, error)

	// Reporting
	RatingsSummary(ctx context.Context, window DateRange) ([]*VinylRatingSummary, error)
	SalesOverview(ctx context.Context, filter SalesFilter) ([]*SalesSummaryRow, []*SalesDetailRow, error)
}
