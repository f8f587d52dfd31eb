package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vinylvault/vinylvault/internal/domain"
)

// ratingsPipeline mirrors the relational GROUP BY: per-vinyl review counts,
// per-star breakdown, average rounded to two decimals, sorted by average
// then review count, both descending.
func ratingsPipeline(window domain.DateRange) mongo.Pipeline {
	pipeline := mongo.Pipeline{}

	if !window.IsZero() {
		bounds := bson.M{}
		if window.Start != nil {
			bounds["$gte"] = *window.Start
		}
		if window.End != nil {
			bounds["$lte"] = *window.End
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"review_date": bounds}}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         domain.CollectionVinyls,
			"localField":   "vinyl_id",
			"foreignField": "_id",
			"as":           "vinyl",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$vinyl",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":            "$vinyl_id",
			"title":          bson.M{"$first": "$vinyl.title"},
			"genre":          bson.M{"$first": "$vinyl.genre"},
			"artist_name":    bson.M{"$first": "$vinyl.artist.name"},
			"amount_reviews": bson.M{"$sum": 1},
			"average_rating": bson.M{"$avg": "$rating"},
			"stars_1":        starCount(1),
			"stars_2":        starCount(2),
			"stars_3":        starCount(3),
			"stars_4":        starCount(4),
			"stars_5":        starCount(5),
			"reviews": bson.M{"$push": bson.M{
				"user_id":     "$user_id",
				"rating":      "$rating",
				"review_text": "$comment",
				"review_date": bson.M{"$dateToString": bson.M{
					"format": "%Y-%m-%d",
					"date":   "$review_date",
				}},
			}},
		}}},
		bson.D{{Key: "$set", Value: bson.M{
			"average_rating": bson.M{"$round": bson.A{"$average_rating", 2}},
		}}},
		bson.D{{Key: "$match", Value: bson.M{"amount_reviews": bson.M{"$gt": 0}}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "average_rating", Value: -1},
			{Key: "amount_reviews", Value: -1},
		}}},
	)

	return pipeline
}

func starCount(star int) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{"$rating", star}}, 1, 0,
	}}}
}

func (r *mongoStore) RatingsSummary(ctx context.Context, window domain.DateRange) ([]*domain.VinylRatingSummary, error) {
	cursor, err := r.db.Collection(domain.CollectionReviews).Aggregate(ctx, ratingsPipeline(window))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings summary: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []*domain.VinylRatingSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode ratings summary: %w", err)
	}
	return summaries, nil
}

// buildSalesMatch filters the unwound order lines. Empty filter fields
// match everything.
func buildSalesMatch(filter domain.SalesFilter) bson.M {
	criteria := bson.M{}
	if filter.ArtistName != "" {
		criteria["lines.artist.name"] = filter.ArtistName
	}
	if filter.Genre != "" {
		criteria["lines.vinyl.genre"] = filter.Genre
	}
	if !filter.Window.IsZero() {
		bounds := bson.M{}
		if filter.Window.Start != nil {
			bounds["$gte"] = *filter.Window.Start
		}
		if filter.Window.End != nil {
			bounds["$lte"] = *filter.Window.End
		}
		criteria["order_date"] = bounds
	}
	return criteria
}

func salesSummaryPipeline(filter domain.SalesFilter) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$lines"}},
		bson.D{{Key: "$match", Value: buildSalesMatch(filter)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":            "$lines.vinyl.genre",
			"vinyl_ids":      bson.M{"$addToSet": "$lines.vinyl_id"},
			"total_purchase": bson.M{"$sum": "$lines.amount"},
			"total_revenue":  bson.M{"$sum": bson.M{"$multiply": bson.A{"$lines.amount", "$lines.vinyl.price"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":            0,
			"genre":          "$_id",
			"vinyl_count":    bson.M{"$size": "$vinyl_ids"},
			"total_purchase": 1,
			"total_revenue":  1,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "total_purchase", Value: -1}}}},
	}
}

func salesDetailPipeline(filter domain.SalesFilter) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$lines"}},
		bson.D{{Key: "$match", Value: buildSalesMatch(filter)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"vinyl_id":    "$lines.vinyl_id",
				"title":       "$lines.vinyl.title",
				"artist_name": "$lines.artist.name",
				"genre":       "$lines.vinyl.genre",
			},
			"total_sales":   bson.M{"$sum": "$lines.amount"},
			"total_revenue": bson.M{"$sum": bson.M{"$multiply": bson.A{"$lines.amount", "$lines.vinyl.price"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":           0,
			"title":         "$_id.title",
			"artist_name":   "$_id.artist_name",
			"genre":         "$_id.genre",
			"total_sales":   1,
			"total_revenue": 1,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "total_sales", Value: -1}}}},
	}
}

func (r *mongoStore) SalesOverview(ctx context.Context, filter domain.SalesFilter) ([]*domain.SalesSummaryRow, []*domain.SalesDetailRow, error) {
	orders := r.db.Collection(domain.CollectionOrders)

	cursor, err := orders.Aggregate(ctx, salesSummaryPipeline(filter))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate sales summary: %w", err)
	}
	var summary []*domain.SalesSummaryRow
	if err := cursor.All(ctx, &summary); err != nil {
		return nil, nil, fmt.Errorf("failed to decode sales summary: %w", err)
	}

	cursor, err = orders.Aggregate(ctx, salesDetailPipeline(filter))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate sales details: %w", err)
	}
	var details []*domain.SalesDetailRow
	if err := cursor.All(ctx, &details); err != nil {
		return nil, nil, fmt.Errorf("failed to decode sales details: %w", err)
	}

	return summary, details, nil
}
