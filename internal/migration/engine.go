package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// Engine performs the one-time relational-to-document migration: it rebuilds
// the target collections from scratch, re-shapes the full relational data
// set into denormalized documents and bulk-loads them. It never flips the
// facade's state itself; the caller does that after a fully successful run.
type Engine struct {
	source *sql.DB
	target *mongo.Database
	logger logger.Logger
}

// NewEngine creates a migration engine reading from the relational store and
// writing to the document store.
func NewEngine(source *sql.DB, target *mongo.Database, logger logger.Logger) *Engine {
	return &Engine{
		source: source,
		target: target,
		logger: logger,
	}
}

// Migrate runs the whole procedure. Any step failure aborts and propagates;
// only per-document validation failures during the bulk load are tolerated,
// collected into the report instead of aborting their collection.
func (e *Engine) Migrate(ctx context.Context) (*domain.MigrationReport, error) {
	if err := e.recreateCollections(ctx); err != nil {
		return nil, err
	}

	snap, err := extract(ctx, e.source)
	if err != nil {
		return nil, fmt.Errorf("failed to read relational source: %w", err)
	}
	e.logger.WithFields(map[string]interface{}{
		"artists": len(snap.Artists),
		"vinyls":  len(snap.Vinyls),
		"users":   len(snap.Users),
		"orders":  len(snap.Orders),
		"reviews": len(snap.Reviews),
	}).Info("Relational source read")

	report := &domain.MigrationReport{}

	vinyls := transformVinyls(snap.Vinyls, snap.Artists)
	report.VinylsInserted, err = e.load(ctx, domain.CollectionVinyls, vinylDocs(vinyls), report)
	if err != nil {
		return nil, err
	}

	users := transformUsers(snap.Users, snap.Admins, snap.Customers)
	report.UsersInserted, err = e.load(ctx, domain.CollectionUsers, userDocs(users), report)
	if err != nil {
		return nil, err
	}

	orders := transformOrders(snap.Orders, snap.Lines, snap.Vinyls, snap.Artists)
	report.OrdersInserted, err = e.load(ctx, domain.CollectionOrders, orderDocs(orders), report)
	if err != nil {
		return nil, err
	}

	reviews := transformReviews(snap.Reviews)
	report.ReviewsInserted, err = e.load(ctx, domain.CollectionReviews, reviewDocs(reviews), report)
	if err != nil {
		return nil, err
	}

	if err := e.createReviewIndex(ctx); err != nil {
		return nil, err
	}
	if err := e.seedCounters(ctx, vinyls, orders); err != nil {
		return nil, err
	}

	e.logger.WithFields(map[string]interface{}{
		"vinyls_inserted":  report.VinylsInserted,
		"users_inserted":   report.UsersInserted,
		"orders_inserted":  report.OrdersInserted,
		"reviews_inserted": report.ReviewsInserted,
		"failures":         len(report.Failures),
	}).Info("Migration completed")

	return report, nil
}

// recreateCollections destroys and rebuilds the whole target schema. Each
// data collection is bound to its declared validator so that non-conforming
// documents are rejected, not silently inserted.
func (e *Engine) recreateCollections(ctx context.Context) error {
	names := []string{
		domain.CollectionVinyls,
		domain.CollectionUsers,
		domain.CollectionOrders,
		domain.CollectionReviews,
		domain.CollectionCounters,
	}
	for _, name := range names {
		if err := e.target.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop collection %s: %w", name, err)
		}
	}

	for name, schema := range collectionSchemas() {
		opts := options.CreateCollection().
			SetValidator(bson.M{"$jsonSchema": schema}).
			SetValidationLevel("strict").
			SetValidationAction("error")
		if err := e.target.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
		e.logger.WithField("collection", name).Info("Collection created with schema validator")
	}
	return nil
}

// taggedDoc pairs a document with the id reported on validation failure.
type taggedDoc struct {
	id  int64
	doc interface{}
}

func vinylDocs(docs []domain.VinylDocument) []taggedDoc {
	tagged := make([]taggedDoc, 0, len(docs))
	for _, d := range docs {
		tagged = append(tagged, taggedDoc{id: d.ID, doc: d})
	}
	return tagged
}

func userDocs(docs []domain.UserDocument) []taggedDoc {
	tagged := make([]taggedDoc, 0, len(docs))
	for _, d := range docs {
		tagged = append(tagged, taggedDoc{id: d.ID, doc: d})
	}
	return tagged
}

func orderDocs(docs []domain.OrderDocument) []taggedDoc {
	tagged := make([]taggedDoc, 0, len(docs))
	for _, d := range docs {
		tagged = append(tagged, taggedDoc{id: d.ID, doc: d})
	}
	return tagged
}

func reviewDocs(docs []domain.ReviewDocument) []taggedDoc {
	tagged := make([]taggedDoc, 0, len(docs))
	for _, d := range docs {
		tagged = append(tagged, taggedDoc{id: d.VinylID, doc: d})
	}
	return tagged
}

// load bulk-inserts a collection unordered. A document rejected by the
// collection's validator is recorded on the report and does not abort the
// rest; any other error aborts the migration. An empty source set is a
// no-op, not an error.
func (e *Engine) load(ctx context.Context, collection string, docs []taggedDoc, report *domain.MigrationReport) (int, error) {
	if len(docs) == 0 {
		e.logger.WithField("collection", collection).Warn("No documents to insert")
		return 0, nil
	}

	payload := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		payload = append(payload, d.doc)
	}

	_, err := e.target.Collection(collection).InsertMany(ctx, payload,
		options.InsertMany().SetOrdered(false))
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) {
			return 0, fmt.Errorf("failed to insert into %s: %w", collection, err)
		}
		for _, writeErr := range bulkErr.WriteErrors {
			failure := domain.ValidationFailure{
				Collection: collection,
				Reason:     writeErr.Message,
			}
			if writeErr.Index >= 0 && writeErr.Index < len(docs) {
				failure.DocumentID = docs[writeErr.Index].id
			}
			e.logger.WithFields(map[string]interface{}{
				"collection":  failure.Collection,
				"document_id": failure.DocumentID,
				"reason":      failure.Reason,
			}).Error("Document rejected during migration")
			report.Failures = append(report.Failures, failure)
		}
		return len(docs) - len(bulkErr.WriteErrors), nil
	}

	return len(docs), nil
}

// createReviewIndex builds the unique (user_id, vinyl_id) index, the
// document-store substitute for the relational composite primary key.
func (e *Engine) createReviewIndex(ctx context.Context) error {
	_, err := e.target.Collection(domain.CollectionReviews).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "vinyl_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create review uniqueness index: %w", err)
	}
	return nil
}

// seedCounters initializes the id counters past the highest migrated ids so
// post-migration inserts never collide.
func (e *Engine) seedCounters(ctx context.Context, vinyls []domain.VinylDocument, orders []domain.OrderDocument) error {
	var maxVinylID, maxOrderID int64
	for _, vinyl := range vinyls {
		if vinyl.ID > maxVinylID {
			maxVinylID = vinyl.ID
		}
	}
	for _, order := range orders {
		if order.ID > maxOrderID {
			maxOrderID = order.ID
		}
	}

	counters := []interface{}{
		bson.M{"_id": domain.CollectionVinyls, "seq": maxVinylID},
		bson.M{"_id": domain.CollectionOrders, "seq": maxOrderID},
	}
	if _, err := e.target.Collection(domain.CollectionCounters).InsertMany(ctx, counters); err != nil {
		return fmt.Errorf("failed to seed id counters: %w", err)
	}
	return nil
}
