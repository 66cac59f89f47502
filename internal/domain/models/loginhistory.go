// internal/domain/models/loginhistory.go
package models

// Terminology: User Identifiers
//   - UserID / userID / user_id: The integer id assigned by the primary user store
//   - Email: The address the user authenticated with (not unique across history)

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Device holds the classified client fields recorded with logins and signups.
// Location is supplied by the caller; the rest comes from the user agent.
type Device struct {
	DeviceType string `json:"device_type"`
	Browser    string `json:"browser"`
	OS         string `json:"os"`
	Location   string `json:"location"`
}

// LoginEvent captures a single successful login.
// LoginTime is indexed with user_id for history views and alone for stats.
type LoginEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     int64              `bson:"user_id" json:"user_id"`
	Email      string             `bson:"email" json:"email"`
	LoginTime  time.Time          `bson:"login_time" json:"login_time"`
	IPAddress  string             `bson:"ip_address,omitempty" json:"ip_address"`
	UserAgent  string             `bson:"user_agent,omitempty" json:"user_agent"`
	DeviceType string             `bson:"device_type,omitempty" json:"device_type"`
	Browser    string             `bson:"browser,omitempty" json:"browser"`
	OS         string             `bson:"os,omitempty" json:"os"`
	Location   string             `bson:"location,omitempty" json:"location"`
	Success    bool               `bson:"success" json:"success"`
}

// ApplyDevice copies classified device fields onto the event.
func (e *LoginEvent) ApplyDevice(d Device) {
	e.DeviceType = d.DeviceType
	e.Browser = d.Browser
	e.OS = d.OS
	e.Location = d.Location
}

// FailedLoginAttempt records a rejected authentication. It is keyed by email
// because identity is never established for a failed attempt.
type FailedLoginAttempt struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	AttemptTime time.Time          `bson:"attempt_time" json:"attempt_time"`
	IPAddress   string             `bson:"ip_address,omitempty" json:"ip_address"`
	UserAgent   string             `bson:"user_agent,omitempty" json:"user_agent"`
	Reason      string             `bson:"reason" json:"reason"`
}

// DailyCount is one bucket of a per-day histogram. Date is a UTC calendar
// date formatted as YYYY-MM-DD.
type DailyCount struct {
	Date  string `bson:"_id" json:"date"`
	Count int64  `bson:"count" json:"count"`
}
