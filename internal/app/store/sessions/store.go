// internal/app/store/sessions/store.go
package sessions

// Terminology: User Identifiers
//   - UserID / userID / user_id: The integer id assigned by the primary user store
//   - SessionToken / token: The opaque credential issued at login (unique per record)

import (
	"context"
	"errors"
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
const CollectionName = indexes.Sessions

// ErrDuplicateToken is returned by Create when the token is already stored.
var ErrDuplicateToken = errors.New("session token already exists")

// Store manages session records in MongoDB.
// A record is active until Close sets is_active=false and logout_time.
type Store struct {
	c *mongo.Collection
}

// New creates a new session Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// EnsureIndexes creates indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Lookup by token (unique)
		{
			Keys:    bson.D{{Key: "session_token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_session_token"),
		},
		// Active sessions for a user, most recently used first
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "last_activity", Value: -1},
			},
			Options: options.Index().SetName("idx_session_user_active"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts an active session. LoginTime and LastActivity default to
// now and are equal on the new record.
func (s *Store) Create(ctx context.Context, session models.Session) (primitive.ObjectID, error) {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	if session.LoginTime.IsZero() {
		session.LoginTime = time.Now().UTC()
	}
	session.LastActivity = session.LoginTime
	session.LogoutTime = nil
	session.IsActive = true

	if _, err := s.c.InsertOne(ctx, session); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateToken
		}
		return primitive.NilObjectID, err
	}
	return session.ID, nil
}

// Touch sets last_activity on the active session with token.
// It reports whether a session matched; closed or unknown tokens are not errors.
func (s *Store) Touch(ctx context.Context, token string, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"session_token": token, "is_active": true},
		bson.M{"$set": bson.M{"last_activity": at}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Close deactivates the session with token and records logout_time.
// Closing an already closed session matches nothing and leaves logout_time unchanged.
func (s *Store) Close(ctx context.Context, token string, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"session_token": token, "is_active": true},
		bson.M{"$set": bson.M{
			"is_active":   false,
			"logout_time": at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// GetByToken retrieves a session by token regardless of state.
func (s *Store) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := s.c.FindOne(ctx, bson.M{"session_token": token}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetActiveByToken retrieves the active session with token.
// Returns mongo.ErrNoDocuments if the session is closed or unknown.
func (s *Store) GetActiveByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := s.c.FindOne(ctx, bson.M{"session_token": token, "is_active": true}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetActiveByUser retrieves all active sessions for a user, most recently
// used first.
func (s *Store) GetActiveByUser(ctx context.Context, userID int64) ([]models.Session, error) {
	cursor, err := s.c.Find(ctx,
		bson.M{"user_id": userID, "is_active": true},
		storeutil.NewestFirst("last_activity", 0),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []models.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountActiveByUser counts active sessions for a user.
func (s *Store) CountActiveByUser(ctx context.Context, userID int64) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID, "is_active": true})
}
