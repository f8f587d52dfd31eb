package migration

import (
	"time"

	"github.com/vinylvault/vinylvault/internal/domain"
)

// transformVinyls embeds each vinyl's artist, producing self-contained
// documents.
func transformVinyls(vinyls []domain.Vinyl, artists map[int64]domain.Artist) []domain.VinylDocument {
	docs := make([]domain.VinylDocument, 0, len(vinyls))
	for _, vinyl := range vinyls {
		artist := artists[vinyl.ArtistID]
		docs = append(docs, domain.VinylDocument{
			ID:          vinyl.ID,
			Title:       vinyl.Title,
			Price:       vinyl.Price,
			ReleaseDate: midnight(vinyl.ReleaseDate),
			CoverImage:  vinyl.CoverImage,
			Genre:       vinyl.Genre,
			Artist: domain.ArtistDocument{
				ID:          artist.ID,
				Name:        artist.Name,
				Nationality: artist.Nationality,
			},
		})
	}
	return docs
}

// transformUsers makes the relational role-by-subtable rule explicit: a user
// with an admins row is an admin regardless of any customers row, a user
// with only a customers row is a customer, and a user with neither keeps
// role "unknown" with no detail sub-document.
func transformUsers(users []domain.User, admins, customers map[int64]string) []domain.UserDocument {
	docs := make([]domain.UserDocument, 0, len(users))
	for _, user := range users {
		doc := domain.UserDocument{
			ID:       user.ID,
			Name:     user.Name,
			Email:    user.Email,
			Password: user.Password,
			Role:     domain.RoleUnknown,
		}

		if department, ok := admins[user.ID]; ok {
			doc.Role = domain.RoleAdmin
			doc.AdminDetails = &domain.AdminDetails{Department: department}
		} else if address, ok := customers[user.ID]; ok {
			doc.Role = domain.RoleCustomer
			doc.CustomerDetails = &domain.CustomerDetails{Address: address}
		}

		docs = append(docs, doc)
	}
	return docs
}

// transformOrders embeds each order's lines with vinyl/artist snapshots
// captured at migration time. Totals are carried over, not recomputed.
func transformOrders(
	orders []domain.Order,
	linesByOrder map[int64][]domain.OrderLine,
	vinyls []domain.Vinyl,
	artists map[int64]domain.Artist,
) []domain.OrderDocument {
	vinylsByID := make(map[int64]domain.Vinyl, len(vinyls))
	for _, vinyl := range vinyls {
		vinylsByID[vinyl.ID] = vinyl
	}

	docs := make([]domain.OrderDocument, 0, len(orders))
	for _, order := range orders {
		doc := domain.OrderDocument{
			ID:            order.ID,
			UserID:        order.UserID,
			OrderDate:     midnight(order.OrderDate),
			PaymentMethod: order.PaymentMethod,
			TotalPrice:    order.TotalPrice,
			Lines:         []domain.OrderLineDocument{},
		}

		for _, line := range linesByOrder[order.ID] {
			vinyl := vinylsByID[line.VinylID]
			artist := artists[vinyl.ArtistID]
			doc.Lines = append(doc.Lines, domain.OrderLineDocument{
				VinylID: line.VinylID,
				Amount:  line.Amount,
				Vinyl: domain.VinylSnapshot{
					Title:      vinyl.Title,
					Price:      vinyl.Price,
					CoverImage: vinyl.CoverImage,
					Genre:      vinyl.Genre,
				},
				Artist: domain.ArtistSnapshot{
					Name:        artist.Name,
					Nationality: artist.Nationality,
				},
			})
		}

		docs = append(docs, doc)
	}
	return docs
}

func transformReviews(reviews []domain.Review) []domain.ReviewDocument {
	docs := make([]domain.ReviewDocument, 0, len(reviews))
	for _, review := range reviews {
		docs = append(docs, domain.ReviewDocument{
			UserID:     review.UserID,
			VinylID:    review.VinylID,
			Rating:     review.Rating,
			Comment:    review.Comment,
			ReviewDate: midnight(review.ReviewDate),
		})
	}
	return docs
}

// midnight normalizes a stored date to a timestamp at the start of its UTC
// day, the representation the document schema uses for all date fields.
func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
