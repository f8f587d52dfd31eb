package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinylvault/vinylvault/internal/domain"
)

func (r *mongoStore) OrdersForUser(ctx context.Context, userID int64) ([]*domain.OrderView, error) {
	cursor, err := r.db.Collection(domain.CollectionOrders).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	defer cursor.Close(ctx)

	var views []*domain.OrderView
	for cursor.Next(ctx) {
		var doc domain.OrderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode order document: %w", err)
		}
		views = append(views, doc.View())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order documents: %w", err)
	}

	return views, nil
}

func (r *mongoStore) BuyVinyl(ctx context.Context, userID, vinylID int64, amount int) (int64, error) {
	if amount <= 0 {
		return 0, domain.NewValidationError("amount must be positive")
	}

	var vinyl domain.VinylDocument
	err := r.db.Collection(domain.CollectionVinyls).
		FindOne(ctx, bson.M{"_id": vinylID}).
		Decode(&vinyl)
	if err == mongo.ErrNoDocuments {
		return 0, &domain.ErrNotFound{Entity: "vinyl", ID: vinylID}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up vinyl: %w", err)
	}

	orderID, err := r.nextSequence(ctx, domain.CollectionOrders)
	if err != nil {
		return 0, &domain.ErrWriteFailed{Op: "insert order", Err: err}
	}

	doc := domain.OrderDocument{
		ID:            orderID,
		UserID:        userID,
		OrderDate:     midnightUTC(time.Now()),
		PaymentMethod: domain.PaymentCreditCard,
		TotalPrice:    vinyl.Price * float64(amount),
		Lines: []domain.OrderLineDocument{
			{
				VinylID: vinylID,
				Amount:  amount,
				Vinyl: domain.VinylSnapshot{
					Title:      vinyl.Title,
					Price:      vinyl.Price,
					CoverImage: vinyl.CoverImage,
					Genre:      vinyl.Genre,
				},
				Artist: domain.ArtistSnapshot{
					Name:        vinyl.Artist.Name,
					Nationality: vinyl.Artist.Nationality,
				},
			},
		},
	}

	if _, err := r.db.Collection(domain.CollectionOrders).InsertOne(ctx, doc); err != nil {
		return 0, &domain.ErrWriteFailed{Op: "insert order", Err: err}
	}

	return orderID, nil
}

// midnightUTC truncates a timestamp to the start of its UTC day, matching
// how dates are represented across both backends.
func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
