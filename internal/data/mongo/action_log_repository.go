// Package mongo archives the borrower audit trail in MongoDB.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/collections-workflow/internal/domain/actionlog"
)

// ActionLogRepository implements actionlog.Sink over a MongoDB collection.
// Deliveries are idempotent on the entry id so a retried export never
// duplicates an archived entry.
type ActionLogRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewActionLogRepository creates a repository on the given collection
func NewActionLogRepository(logger *slog.Logger, collection *mongo.Collection) *ActionLogRepository {
	return &ActionLogRepository{
		collection: collection,
		logger:     logger,
	}
}

// Name identifies the sink in logs and DLQ records
func (r *ActionLogRepository) Name() string {
	return "mongo:" + r.collection.Name()
}

// EnsureIndexes creates the unique entry id index and the per-borrower history index
func (r *ActionLogRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "entry_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_entry_id"),
		},
		{
			Keys:    bson.D{{Key: "borrower_id", Value: 1}, {Key: "performed_at", Value: -1}},
			Options: options.Index().SetName("borrower_history"),
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		r.logger.Error("Failed to create action log indexes", "error", err)
		return fmt.Errorf("failed to create action log indexes: %w", err)
	}
	return nil
}

// Deliver inserts the entry unless one with the same id is already archived
func (r *ActionLogRepository) Deliver(ctx context.Context, entry actionlog.Entry) error {
	filter := bson.M{"entry_id": entry.ID}
	update := bson.M{"$setOnInsert": entry}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// Two concurrent upserts on a unique index can race; the loser already has its document.
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Debug("Action log entry already archived", "entry_id", entry.ID)
			return nil
		}
		r.logger.Error("Failed to archive action log entry",
			"entry_id", entry.ID,
			"borrower_id", entry.BorrowerID,
			"error", err)
		return fmt.Errorf("failed to archive action log entry: %w", err)
	}

	return nil
}

// FindByBorrower returns archived entries for a borrower, newest first
func (r *ActionLogRepository) FindByBorrower(ctx context.Context, borrowerID string, limit int64) ([]actionlog.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "performed_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"borrower_id": borrowerID}, opts)
	if err != nil {
		r.logger.Error("Failed to query archived action logs", "borrower_id", borrowerID, "error", err)
		return nil, fmt.Errorf("failed to query archived action logs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []actionlog.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode archived action logs: %w", err)
	}
	return entries, nil
}
