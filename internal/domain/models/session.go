package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session represents one authenticated credential from issuance to logout.
// IsActive flips to false exactly once, together with LogoutTime.
type Session struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       int64              `bson:"user_id" json:"user_id"`
	Email        string             `bson:"email" json:"email"`
	SessionToken string             `bson:"session_token" json:"session_token"`
	LoginTime    time.Time          `bson:"login_time" json:"login_time"`
	LastActivity time.Time          `bson:"last_activity" json:"last_activity"`
	LogoutTime   *time.Time         `bson:"logout_time,omitempty" json:"logout_time"`
	IPAddress    string             `bson:"ip_address,omitempty" json:"ip_address"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
}
