package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// mongoStore implements domain.Store against the denormalized document
// schema. Vinyl reads need no join (the artist is embedded) and order
// history reads carry the vinyl/artist snapshots captured at order time.
type mongoStore struct {
	db     *mongo.Database
	logger logger.Logger
}

// NewMongoStore creates the document store adapter.
func NewMongoStore(db *mongo.Database, logger logger.Logger) domain.Store {
	return &mongoStore{
		db:     db,
		logger: logger,
	}
}

// nextSequence returns the next id from the named atomic counter. Upsert
// keeps the counter self-initializing for collections that start empty.
func (r *mongoStore) nextSequence(ctx context.Context, name string) (int64, error) {
	result := r.db.Collection(domain.CollectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := result.Decode(&counter); err != nil {
		return 0, fmt.Errorf("failed to advance %s counter: %w", name, err)
	}
	return counter.Seq, nil
}
