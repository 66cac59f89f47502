// internal/app/store/signups/signupstore.go
package signupstore

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
const CollectionName = indexes.SignupHistory

// Store manages signup records. It does not deduplicate by user_id; the
// registration flow writes once per user.
type Store struct {
	c *mongo.Collection
}

// New creates a new signup Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// EnsureIndexes creates indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_signup_user"),
		},
		{
			Keys:    bson.D{{Key: "signup_time", Value: -1}},
			Options: options.Index().SetName("idx_signup_time"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a SignupEvent and returns its id.
func (s *Store) Create(ctx context.Context, ev models.SignupEvent) (primitive.ObjectID, error) {
	if ev.ID.IsZero() {
		ev.ID = primitive.NewObjectID()
	}
	if ev.SignupTime.IsZero() {
		ev.SignupTime = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return primitive.NilObjectID, err
	}
	return ev.ID, nil
}

// GetSince retrieves signups at or after since, newest first.
func (s *Store) GetSince(ctx context.Context, since time.Time, limit int64) ([]models.SignupEvent, error) {
	opts := storeutil.NewestFirst("signup_time", limit)

	cur, err := s.c.Find(ctx, bson.M{"signup_time": bson.M{"$gte": since}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := []models.SignupEvent{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountSince counts signups at or after since.
func (s *Store) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"signup_time": bson.M{"$gte": since}})
}

// DailyCountsSince buckets signups by UTC calendar day, newest day first.
func (s *Store) DailyCountsSince(ctx context.Context, since time.Time) ([]models.DailyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"signup_time": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$signup_time"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	days := []models.DailyCount{}
	if err := cur.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}
