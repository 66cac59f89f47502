// internal/app/system/validators/validators.go
package validators

// Terminology: User Identifiers
//   - UserID / userID / user_id: The integer id assigned by the primary user store
//   - Email: Stored on every record; failed attempts carry no user_id

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dalemusser/stratatrack/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the tracking collections and attaches a JSON-Schema
// validator to each, so a writer that bypasses the stores still cannot store
// malformed history. Servers without collMod support (some DocumentDB
// versions) keep the collections and skip the validator.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	collections := []struct {
		name   string
		schema bson.M
	}{
		{indexes.LoginHistory, loginHistorySchema()},
		{indexes.SignupHistory, signupHistorySchema()},
		{indexes.ActivityLog, activityLogSchema()},
		{indexes.FailedLogins, failedLoginSchema()},
		{indexes.Sessions, sessionsSchema()},
	}

	var problems []string
	for _, c := range collections {
		if _, err := ensureCollection(ctx, db, c.name); err != nil {
			problems = append(problems, c.name+": "+err.Error())
			continue
		}
		err := setValidator(ctx, db, c.name, c.schema)
		switch {
		case err == nil:
		case unsupported(err):
			zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.name))
		default:
			problems = append(problems, c.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureCollection creates name unless it already exists. created is true
// only when this call made it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- server error classes ------------------------- */

// commandErr reports whether err carries one of the server error codes, or
// (for proxies that rewrite codes) mentions one of the phrases.
func commandErr(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && slices.Contains(codes, ce.Code) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErr(err, []int32{48}, "already exists", "namespace exists")
}

func unsupported(err error) bool {
	return commandErr(err, []int32{59, 115}, "no such command", "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

// user_id is written from Go int64, which encodes as BSON long.
var userID = bson.M{"bsonType": bson.A{"long", "int"}}

var optionalString = bson.M{"bsonType": "string"}

func nonEmptyString() bson.M {
	return bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
}

func loginHistorySchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "email", "login_time", "success"},
			"properties": bson.M{
				"user_id":     userID,
				"email":       bson.M{"bsonType": "string"},
				"login_time":  bson.M{"bsonType": "date"},
				"ip_address":  optionalString,
				"user_agent":  optionalString,
				"device_type": bson.M{"enum": bson.A{"Mobile", "Tablet", "Desktop"}},
				"browser":     optionalString,
				"os":          optionalString,
				"location":    optionalString,
				"success":     bson.M{"bsonType": "bool"},
			},
		},
	}
}

func signupHistorySchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "email", "signup_time"},
			"properties": bson.M{
				"user_id":         userID,
				"email":           bson.M{"bsonType": "string"},
				"full_name":       optionalString,
				"signup_time":     bson.M{"bsonType": "date"},
				"device_type":     bson.M{"enum": bson.A{"Mobile", "Tablet", "Desktop"}},
				"referral_source": optionalString,
			},
		},
	}
}

func activityLogSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "email", "activity_type", "timestamp"},
			"properties": bson.M{
				"user_id":              userID,
				"email":                bson.M{"bsonType": "string"},
				"activity_type":        nonEmptyString(),
				"activity_description": optionalString,
				"timestamp":            bson.M{"bsonType": "date"},
				"ip_address":           optionalString,
				"metadata":             optionalString,
			},
		},
	}
}

func failedLoginSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "attempt_time", "reason"},
			"properties": bson.M{
				"email":        nonEmptyString(),
				"attempt_time": bson.M{"bsonType": "date"},
				"reason":       nonEmptyString(),
			},
		},
	}
}

func sessionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "email", "session_token", "login_time", "last_activity", "is_active"},
			"properties": bson.M{
				"user_id":       userID,
				"email":         bson.M{"bsonType": "string"},
				"session_token": nonEmptyString(),
				"login_time":    bson.M{"bsonType": "date"},
				"last_activity": bson.M{"bsonType": "date"},
				"logout_time":   bson.M{"bsonType": "date"},
				"is_active":     bson.M{"bsonType": "bool"},
			},
		},
	}
}
