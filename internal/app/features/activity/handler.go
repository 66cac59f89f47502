// internal/app/features/activity/handler.go
package activity

// Terminology: User Identifiers
//   - UserID / userID / user_id: The integer id assigned by the primary user store
//   - SessionToken / token: The bearer credential issued at login and tracked in user_sessions

import (
	"github.com/dalemusser/stratatrack/internal/app/system/tracking"
	"go.uber.org/zap"
)

// Defaults holds the values used when a query parameter is omitted.
type Defaults struct {
	LoginLimit    int64 // my-logins, admin user logins
	ActivityLimit int64 // my-activity, admin user activity
	SignupLimit   int64 // admin recent-signups
	StatsDays     int   // admin login-stats, signup-stats
	SignupDays    int   // admin recent-signups
	FailedHours   int   // admin failed-logins
}

// DefaultDefaults mirrors the query defaults the reporting API has always used.
func DefaultDefaults() Defaults {
	return Defaults{
		LoginLimit:    50,
		ActivityLimit: 100,
		SignupLimit:   100,
		StatsDays:     30,
		SignupDays:    7,
		FailedHours:   24,
	}
}

// MaxLimit bounds any limit query parameter.
const MaxLimit = 1000

// Handler owns the reporting API handlers.
type Handler struct {
	Tracker  *tracking.Tracker
	Recorder *tracking.Recorder
	Defaults Defaults
	Log      *zap.Logger
}

// NewHandler creates a new activity Handler. Zero fields in defaults fall
// back to DefaultDefaults.
func NewHandler(tracker *tracking.Tracker, recorder *tracking.Recorder, defaults Defaults, logger *zap.Logger) *Handler {
	base := DefaultDefaults()
	if defaults.LoginLimit > 0 {
		base.LoginLimit = defaults.LoginLimit
	}
	if defaults.ActivityLimit > 0 {
		base.ActivityLimit = defaults.ActivityLimit
	}
	if defaults.SignupLimit > 0 {
		base.SignupLimit = defaults.SignupLimit
	}
	if defaults.StatsDays > 0 {
		base.StatsDays = defaults.StatsDays
	}
	if defaults.SignupDays > 0 {
		base.SignupDays = defaults.SignupDays
	}
	if defaults.FailedHours > 0 {
		base.FailedHours = defaults.FailedHours
	}
	return &Handler{
		Tracker:  tracker,
		Recorder: recorder,
		Defaults: base,
		Log:      logger,
	}
}
