package repository

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinylvault/vinylvault/internal/domain"
)

func (r *mongoStore) ListVinyls(ctx context.Context, limit int) ([]*domain.VinylView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: limit}}}},
	}

	cursor, err := r.db.Collection(domain.CollectionVinyls).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list vinyls: %w", err)
	}
	return decodeVinylViews(ctx, cursor)
}

func (r *mongoStore) SearchVinyls(ctx context.Context, query string) ([]*domain.VinylView, error) {
	pattern := primitive.Regex{Pattern: query, Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"artist.name": pattern},
		bson.M{"genre": pattern},
	}}

	cursor, err := r.db.Collection(domain.CollectionVinyls).Find(ctx, filter,
		options.Find().SetLimit(searchResultCap))
	if err != nil {
		return nil, fmt.Errorf("failed to search vinyls: %w", err)
	}
	return decodeVinylViews(ctx, cursor)
}

// buildCatalogFilter translates the optional admin filters into a bson
// document. Absent or malformed numeric filters match everything.
func buildCatalogFilter(filter domain.CatalogFilter) bson.M {
	criteria := bson.M{}
	if filter.Genre != "" {
		criteria["genre"] = primitive.Regex{Pattern: filter.Genre, Options: "i"}
	}
	if filter.Artist != "" {
		criteria["artist.name"] = primitive.Regex{Pattern: filter.Artist, Options: "i"}
	}

	price := bson.M{}
	if min, ok := filter.MinPriceValue(); ok {
		price["$gte"] = min
	}
	if max, ok := filter.MaxPriceValue(); ok {
		price["$lte"] = max
	}
	if len(price) > 0 {
		criteria["price"] = price
	}

	if id, ok := filter.VinylIDValue(); ok {
		criteria["_id"] = id
	}
	return criteria
}

func (r *mongoStore) AdminSearchVinyls(ctx context.Context, filter domain.CatalogFilter) ([]*domain.VinylView, []string, error) {
	collection := r.db.Collection(domain.CollectionVinyls)

	cursor, err := collection.Find(ctx, buildCatalogFilter(filter))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search vinyls: %w", err)
	}
	views, err := decodeVinylViews(ctx, cursor)
	if err != nil {
		return nil, nil, err
	}

	raw, err := collection.Distinct(ctx, "genre", bson.D{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list genres: %w", err)
	}
	genres := make([]string, 0, len(raw))
	for _, value := range raw {
		if genre, ok := value.(string); ok {
			genres = append(genres, genre)
		}
	}
	sort.Strings(genres)

	return views, genres, nil
}

func (r *mongoStore) InsertVinyl(ctx context.Context, input domain.VinylInput) (int64, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}

	collection := r.db.Collection(domain.CollectionVinyls)

	// The document schema has no artists collection; the artist snapshot is
	// copied from any vinyl already carrying that artist id.
	var existing domain.VinylDocument
	err := collection.FindOne(ctx,
		bson.M{"artist._id": input.ArtistID},
		options.FindOne().SetProjection(bson.M{"artist": 1}),
	).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return 0, &domain.ErrNotFound{Entity: "artist", ID: input.ArtistID}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up artist: %w", err)
	}

	id, err := r.nextSequence(ctx, domain.CollectionVinyls)
	if err != nil {
		return 0, &domain.ErrWriteFailed{Op: "insert vinyl", Err: err}
	}

	doc := domain.VinylDocument{
		ID:          id,
		Title:       input.Title,
		Price:       input.Price,
		ReleaseDate: input.ReleaseDate,
		CoverImage:  input.CoverImage,
		Genre:       input.Genre,
		Artist:      existing.Artist,
	}
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return 0, &domain.ErrWriteFailed{Op: "insert vinyl", Err: err}
	}

	return id, nil
}

func (r *mongoStore) DeleteVinyl(ctx context.Context, vinylID int64) error {
	result, err := r.db.Collection(domain.CollectionVinyls).DeleteOne(ctx, bson.M{"_id": vinylID})
	if err != nil {
		return &domain.ErrWriteFailed{Op: "delete vinyl", Err: err}
	}
	if result.DeletedCount == 0 {
		return &domain.ErrNotFound{Entity: "vinyl", ID: vinylID}
	}

	// The relational schema cascades review deletion; the document store has
	// no foreign keys, so the adapter removes them itself.
	_, err = r.db.Collection(domain.CollectionReviews).DeleteMany(ctx, bson.M{"vinyl_id": vinylID})
	if err != nil {
		return &domain.ErrWriteFailed{Op: "delete vinyl reviews", Err: err}
	}
	return nil
}

func decodeVinylViews(ctx context.Context, cursor *mongo.Cursor) ([]*domain.VinylView, error) {
	defer cursor.Close(ctx)

	var views []*domain.VinylView
	for cursor.Next(ctx) {
		var doc domain.VinylDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode vinyl document: %w", err)
		}
		views = append(views, doc.View())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vinyl documents: %w", err)
	}
	return views, nil
}
