package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Well-known activity tags. The tag vocabulary is open: callers may record
// any non-empty string.
const (
	ActivityLogin  = "login"
	ActivitySignup = "signup"
	ActivityLogout = "logout"
)

// Metadata is the opaque payload attached to an activity event. It is stored
// as JSON text and decoded back into a map on read.
type Metadata map[string]any

// Encode returns the JSON text form of m. An empty map encodes to "" so the
// field is omitted from storage.
func (m Metadata) Encode() (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeMetadata parses stored metadata text. Integer numbers that fit in an
// int come back as int and every other number as float64, so integer ids
// survive the round trip exactly. Text that is not a JSON object is returned
// under the "raw" key rather than failing the read.
func DecodeMetadata(text string) Metadata {
	if text == "" {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil || dec.More() {
		return Metadata{"raw": text}
	}
	for k, v := range m {
		m[k] = fromNumber(v)
	}
	return Metadata(m)
}

// fromNumber replaces json.Number values, including nested ones.
func fromNumber(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 0); err == nil {
			return int(i)
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = fromNumber(e)
		}
	case []any:
		for i, e := range x {
			x[i] = fromNumber(e)
		}
	}
	return v
}

// ActivityEvent is a freely tagged record of something a user did.
// MetadataText is the stored form; Metadata is filled on read.
type ActivityEvent struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       int64              `bson:"user_id" json:"user_id"`
	Email        string             `bson:"email" json:"email"`
	ActivityType string             `bson:"activity_type" json:"activity_type"`
	Description  string             `bson:"activity_description,omitempty" json:"activity_description"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
	IPAddress    string             `bson:"ip_address,omitempty" json:"ip_address"`
	MetadataText string             `bson:"metadata,omitempty" json:"-"`
	Metadata     Metadata           `bson:"-" json:"metadata"`
}
