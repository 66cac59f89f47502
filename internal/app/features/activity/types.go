package activity

import (
	"time"

	"github.com/dalemusser/stratatrack/internal/app/system/tracking"
	"github.com/dalemusser/stratatrack/internal/domain/models"
)

// sessionView is a session as reported to clients. The token is a bearer
// credential and is never echoed; Current marks the caller's own session.
type sessionView struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	LoginTime    time.Time `json:"login_time"`
	LastActivity time.Time `json:"last_activity"`
	IPAddress    string    `json:"ip_address"`
	IsActive     bool      `json:"is_active"`
	Current      bool      `json:"current,omitempty"`
}

func toSessionViews(sessions []models.Session, currentToken string) []sessionView {
	out := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionView{
			ID:           s.ID.Hex(),
			UserID:       s.UserID,
			Email:        s.Email,
			LoginTime:    s.LoginTime,
			LastActivity: s.LastActivity,
			IPAddress:    s.IPAddress,
			IsActive:     s.IsActive,
			Current:      currentToken != "" && s.SessionToken == currentToken,
		})
	}
	return out
}

type loginsResponse struct {
	UserID       int64               `json:"user_id"`
	Email        string              `json:"email,omitempty"`
	LoginHistory []models.LoginEvent `json:"login_history"`
	TotalLogins  int                 `json:"total_logins"`
}

type activitiesResponse struct {
	UserID          int64                  `json:"user_id"`
	Email           string                 `json:"email,omitempty"`
	Activities      []models.ActivityEvent `json:"activities"`
	TotalActivities int                    `json:"total_activities"`
}

type sessionsResponse struct {
	UserID         int64         `json:"user_id"`
	Email          string        `json:"email,omitempty"`
	ActiveSessions []sessionView `json:"active_sessions"`
	SessionCount   int           `json:"session_count"`
}

type summaryResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email,omitempty"`
	tracking.Summary
}

type recentSignupsResponse struct {
	Signups    []models.SignupEvent `json:"signups"`
	Count      int                  `json:"count"`
	PeriodDays int                  `json:"period_days"`
}

type failedLoginsResponse struct {
	Email          string                      `json:"email"`
	FailedAttempts []models.FailedLoginAttempt `json:"failed_attempts"`
	Count          int                         `json:"count"`
	PeriodHours    int                         `json:"period_hours"`
}
