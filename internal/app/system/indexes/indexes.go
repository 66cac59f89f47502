// internal/app/system/indexes/indexes.go
package indexes

// Terminology: User Identifiers
//   - UserID / userID / user_id: The integer id assigned by the primary user store
//   - Email: Failed attempts are keyed by email because no user is established

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Names of the tracking collections.
const (
	LoginHistory  = "user_login_history"
	SignupHistory = "user_signup_history"
	ActivityLog   = "user_activity_log"
	FailedLogins  = "failed_login_attempts"
	Sessions      = "user_sessions"
)

func index(name string, keys ...string) mongo.IndexModel {
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if strings.HasPrefix(k, "-") {
			k, dir = k[1:], -1
		}
		d = append(d, bson.E{Key: k, Value: dir})
	}
	return mongo.IndexModel{Keys: d, Options: options.Index().SetName(name)}
}

func uniqueIndex(name string, keys ...string) mongo.IndexModel {
	m := index(name, keys...)
	m.Options.SetUnique(true)
	return m
}

// desired lists every index the stores rely on. Keys prefixed with "-" sort
// descending.
var desired = []struct {
	collection string
	models     []mongo.IndexModel
}{
	{LoginHistory, []mongo.IndexModel{
		index("idx_login_user_time", "user_id", "-login_time"),
		index("idx_login_time", "-login_time"),
	}},
	{SignupHistory, []mongo.IndexModel{
		index("idx_signup_user", "user_id"),
		index("idx_signup_time", "-signup_time"),
	}},
	{ActivityLog, []mongo.IndexModel{
		index("idx_activity_user", "user_id", "-timestamp"),
		index("idx_activity_type", "activity_type", "-timestamp"),
	}},
	{FailedLogins, []mongo.IndexModel{
		index("idx_failed_email_time", "email", "-attempt_time"),
		index("idx_failed_time", "-attempt_time"),
	}},
	{Sessions, []mongo.IndexModel{
		uniqueIndex("idx_session_token", "session_token"),
		index("idx_session_user_active", "user_id", "is_active", "-last_activity"),
	}},
}

// EnsureAll reconciles the tracking indexes. It is idempotent and is run at
// startup and by tracking.Initialize. Problems from every collection are
// joined into one error.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, d := range desired {
		if err := ensureIndexSet(ctx, db.Collection(d.collection), d.models); err != nil {
			problems = append(problems, d.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return a != nil && *a == (b != nil && *b) || a == nil && (b == nil || !*b)
}

// Best-effort duplicate detector (works across Mongo-compatible vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB return IndexOptionsConflict when an index with the same keys
// already exists under a different name or with different options.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

// listIndexes returns the collection's indexes keyed by key signature.
// A missing collection has no indexes.
func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listIndexes(ctx, coll)

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		isUnique := unique != nil && *unique
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if sameBoolPtr(unique, ex.Unique) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}

			// Uniqueness changed: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		switch {
		case err == nil:
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", created),
				zap.String("keys", sig),
				zap.Bool("unique", isUnique),
				zap.Duration("took", time.Since(start)))
		case isDuplicateKeyErr(err) && isUnique:
			errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
		case isOptionsConflictErr(err):
			zap.L().Warn("index ensure failed (options conflict)",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
		default:
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
