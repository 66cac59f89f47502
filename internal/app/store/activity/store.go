// internal/app/store/activity/store.go
package activity

// Terminology: User Identifiers
//   - UserID / userID / user_id: The integer id assigned by the primary user store
//   - Email: Denormalized onto every event so history survives user deletion

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/stratatrack/internal/app/store/storeutil"
	"github.com/dalemusser/stratatrack/internal/app/system/indexes"
	"github.com/dalemusser/stratatrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName matches the table name of the original relational layout.
const CollectionName = indexes.ActivityLog

// Store manages activity events.
type Store struct {
	c *mongo.Collection
}

// New creates a new activity Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Activity by user (for user activity history)
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activity_user"),
		},
		{
			Keys:    bson.D{{Key: "activity_type", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activity_type"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create records a new activity event. Unless MetadataText is already set,
// Metadata is encoded to JSON text before the insert; an empty map is stored
// as absent.
func (s *Store) Create(ctx context.Context, event models.ActivityEvent) (primitive.ObjectID, error) {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.MetadataText == "" {
		text, err := event.Metadata.Encode()
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("encode metadata: %w", err)
		}
		event.MetadataText = text
	}

	if _, err := s.c.InsertOne(ctx, event); err != nil {
		return primitive.NilObjectID, err
	}
	return event.ID, nil
}

// GetByUser retrieves activity events for a user, most recent first.
// A limit of 0 or less returns every event.
func (s *Store) GetByUser(ctx context.Context, userID int64, limit int64) ([]models.ActivityEvent, error) {
	opts := storeutil.NewestFirst("timestamp", limit)

	cursor, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.ActivityEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Metadata = models.DecodeMetadata(events[i].MetadataText)
	}
	return events, nil
}

// CountByUser counts all activity events for a user.
func (s *Store) CountByUser(ctx context.Context, userID int64) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID})
}
