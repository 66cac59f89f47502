// internal/app/store/logins/loginstore.go
package loginstore

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
const CollectionName = indexes.LoginHistory

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// EnsureIndexes creates indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Per-user recent logins (latest-first)
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "login_time", Value: -1}},
			Options: options.Index().SetName("idx_login_user_time"),
		},
		// Site-wide windows for stats
		{
			Keys:    bson.D{{Key: "login_time", Value: -1}},
			Options: options.Index().SetName("idx_login_time"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a LoginEvent and returns its id.
// If LoginTime is zero, it's set to time.Now().UTC().
func (s *Store) Create(ctx context.Context, ev models.LoginEvent) (primitive.ObjectID, error) {
	if ev.ID.IsZero() {
		ev.ID = primitive.NewObjectID()
	}
	if ev.LoginTime.IsZero() {
		ev.LoginTime = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return primitive.NilObjectID, err
	}
	return ev.ID, nil
}

// GetByUser retrieves a user's logins, newest first.
// A limit of zero or less returns every record.
func (s *Store) GetByUser(ctx context.Context, userID int64, limit int64) ([]models.LoginEvent, error) {
	opts := storeutil.NewestFirst("login_time", limit)

	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := []models.LoginEvent{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountByUser counts every login recorded for a user.
func (s *Store) CountByUser(ctx context.Context, userID int64) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID})
}

// LastLogin returns the most recent login time for a user, or nil when the
// user has never logged in.
func (s *Store) LastLogin(ctx context.Context, userID int64) (*time.Time, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "login_time", Value: -1}}).
		SetProjection(bson.M{"login_time": 1})

	var rec models.LoginEvent
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := rec.LoginTime.UTC()
	return &t, nil
}

// CountSince counts logins at or after since.
func (s *Store) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"login_time": bson.M{"$gte": since}})
}

// CountUsersSince counts distinct users with a login at or after since.
func (s *Store) CountUsersSince(ctx context.Context, since time.Time) (int64, error) {
	ids, err := s.c.Distinct(ctx, "user_id", bson.M{"login_time": bson.M{"$gte": since}})
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// DailyCountsSince buckets logins at or after since by UTC calendar day,
// newest day first.
func (s *Store) DailyCountsSince(ctx context.Context, since time.Time) ([]models.DailyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"login_time": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$login_time"}},
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
