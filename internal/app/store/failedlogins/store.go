// internal/app/store/failedlogins/store.go
package failedlogins

import (
	"context"
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
const CollectionName = indexes.FailedLogins

// DefaultReason is recorded when the caller gives none.
const DefaultReason = "Invalid credentials"

// Store manages failed login attempts. It imposes no rate limit of its own;
// callers read the window and decide.
type Store struct {
	c *mongo.Collection
}

// New creates a new failed-login Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// EnsureIndexes creates indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Per-email window lookups
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "attempt_time", Value: -1}},
			Options: options.Index().SetName("idx_failed_email_time"),
		},
		// Global window counts
		{
			Keys:    bson.D{{Key: "attempt_time", Value: -1}},
			Options: options.Index().SetName("idx_failed_time"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create records a failed attempt and returns its id.
func (s *Store) Create(ctx context.Context, a models.FailedLoginAttempt) (primitive.ObjectID, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.AttemptTime.IsZero() {
		a.AttemptTime = time.Now().UTC()
	}
	if a.Reason == "" {
		a.Reason = DefaultReason
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return primitive.NilObjectID, err
	}
	return a.ID, nil
}

// GetByEmailSince returns every attempt for email at or after since, newest first.
func (s *Store) GetByEmailSince(ctx context.Context, email string, since time.Time) ([]models.FailedLoginAttempt, error) {
	opts := storeutil.NewestFirst("attempt_time", 0)

	cur, err := s.c.Find(ctx, bson.M{
		"email":        email,
		"attempt_time": bson.M{"$gte": since},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	attempts := []models.FailedLoginAttempt{}
	if err := cur.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

// CountSince counts attempts for all emails at or after since.
func (s *Store) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"attempt_time": bson.M{"$gte": since}})
}
