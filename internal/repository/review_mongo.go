package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vinylvault/vinylvault/internal/domain"
)

func (r *mongoStore) SubmitReview(ctx context.Context, input domain.ReviewInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	doc := domain.ReviewDocument{
		UserID:     input.UserID,
		VinylID:    input.VinylID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		ReviewDate: midnightUTC(time.Now()),
	}

	_, err := r.db.Collection(domain.CollectionReviews).InsertOne(ctx, doc)
	if err != nil {
		// The (user_id, vinyl_id) unique index stands in for the relational
		// composite key.
		if mongo.IsDuplicateKeyError(err) {
			return &domain.ErrDuplicateReview{UserID: input.UserID, VinylID: input.VinylID}
		}
		return &domain.ErrWriteFailed{Op: "insert review", Err: err}
	}

	return nil
}

func (r *mongoStore) GetReview(ctx context.Context, userID, vinylID int64) (*domain.ReviewView, error) {
	var doc domain.ReviewDocument
	err := r.db.Collection(domain.CollectionReviews).
		FindOne(ctx, bson.M{"user_id": userID, "vinyl_id": vinylID}).
		Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &domain.ReviewView{
		UserID:     doc.UserID,
		Rating:     doc.Rating,
		Comment:    doc.Comment,
		ReviewDate: doc.ReviewDate,
	}, nil
}

func (r *mongoStore) DeleteReview(ctx context.Context, userID, vinylID int64) (bool, error) {
	result, err := r.db.Collection(domain.CollectionReviews).
		DeleteOne(ctx, bson.M{"user_id": userID, "vinyl_id": vinylID})
	if err != nil {
		return false, &domain.ErrWriteFailed{Op: "delete review", Err: err}
	}
	return result.DeletedCount > 0, nil
}
