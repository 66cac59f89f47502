package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SignupEvent is written exactly once per user at registration.
type SignupEvent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         int64              `bson:"user_id" json:"user_id"`
	Email          string             `bson:"email" json:"email"`
	FullName       string             `bson:"full_name,omitempty" json:"full_name"`
	SignupTime     time.Time          `bson:"signup_time" json:"signup_time"`
	IPAddress      string             `bson:"ip_address,omitempty" json:"ip_address"`
	UserAgent      string             `bson:"user_agent,omitempty" json:"user_agent"`
	DeviceType     string             `bson:"device_type,omitempty" json:"device_type"`
	Browser        string             `bson:"browser,omitempty" json:"browser"`
	OS             string             `bson:"os,omitempty" json:"os"`
	Location       string             `bson:"location,omitempty" json:"location"`
	ReferralSource string             `bson:"referral_source,omitempty" json:"referral_source"`
}

// ApplyDevice copies classified device fields onto the event.
func (e *SignupEvent) ApplyDevice(d Device) {
	e.DeviceType = d.DeviceType
	e.Browser = d.Browser
	e.OS = d.OS
	e.Location = d.Location
}
