package tracking

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratatrack/internal/app/system/metrics"
	"github.com/dalemusser/stratatrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const day = 24 * time.Hour

// LoginStats aggregates logins over a trailing window.
type LoginStats struct {
	TotalLogins    int64               `json:"total_logins"`
	UniqueUsers    int64               `json:"unique_users"`
	FailedAttempts int64               `json:"failed_attempts"`
	DailyLogins    []models.DailyCount `json:"daily_logins"`
	PeriodDays     int                 `json:"period_days"`
}

// SignupStats aggregates signups over a trailing window.
type SignupStats struct {
	TotalSignups int64               `json:"total_signups"`
	DailySignups []models.DailyCount `json:"daily_signups"`
	PeriodDays   int                 `json:"period_days"`
}

// Summary holds the per-user scalar aggregates.
type Summary struct {
	TotalLogins     int64      `json:"total_logins"`
	LastLogin       *time.Time `json:"last_login"`
	TotalActivities int64      `json:"total_activities"`
	ActiveSessions  int64      `json:"active_sessions"`
}

// LoginHistory returns the user's logins, newest first. A limit of 0 or
// less returns every login.
func (t *Tracker) LoginHistory(ctx context.Context, userID int64, limit int64) (out []models.LoginEvent, err error) {
	defer metrics.ObserveStore("login_history", time.Now(), &err)

	out, err = t.logins.GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, unavailable("login history", err)
	}
	return out, nil
}

// FailedLogins returns every failed attempt for email in the trailing hours,
// newest first. Windows are inclusive at the start: with hours = 0 an attempt
// stored at the current instant still matches.
func (t *Tracker) FailedLogins(ctx context.Context, email string, hours int) (out []models.FailedLoginAttempt, err error) {
	defer metrics.ObserveStore("failed_logins", time.Now(), &err)

	out, err = t.failed.GetByEmailSince(ctx, email, t.windowStart(hours, time.Hour))
	if err != nil {
		return nil, unavailable("failed logins", err)
	}
	return out, nil
}

// RecentSignups returns signups in the trailing days, newest first.
func (t *Tracker) RecentSignups(ctx context.Context, days int, limit int64) (out []models.SignupEvent, err error) {
	defer metrics.ObserveStore("recent_signups", time.Now(), &err)

	out, err = t.signups.GetSince(ctx, t.windowStart(days, day), limit)
	if err != nil {
		return nil, unavailable("recent signups", err)
	}
	return out, nil
}

// UserActivity returns the user's activity events with metadata decoded,
// newest first.
func (t *Tracker) UserActivity(ctx context.Context, userID int64, limit int64) (out []models.ActivityEvent, err error) {
	defer metrics.ObserveStore("user_activity", time.Now(), &err)

	out, err = t.activity.GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, unavailable("user activity", err)
	}
	return out, nil
}

// ActiveSessions returns the user's active sessions, most recently used first.
func (t *Tracker) ActiveSessions(ctx context.Context, userID int64) (out []models.Session, err error) {
	defer metrics.ObserveStore("active_sessions", time.Now(), &err)

	out, err = t.sessions.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, unavailable("active sessions", err)
	}
	return out, nil
}

// ActiveSession returns the active session carrying token.
func (t *Tracker) ActiveSession(ctx context.Context, token string) (s *models.Session, err error) {
	defer metrics.ObserveStore("active_session", time.Now(), &err)

	s, err = t.sessions.GetActiveByToken(ctx, token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, unavailable("active session", err)
	}
	return s, nil
}

// LoginStats aggregates logins and failed attempts in the trailing days.
// Failed attempts are counted across all emails.
func (t *Tracker) LoginStats(ctx context.Context, days int) (stats LoginStats, err error) {
	defer metrics.ObserveStore("login_stats", time.Now(), &err)

	if days < 0 {
		days = 0
	}
	since := t.windowStart(days, day)
	stats.PeriodDays = days

	if stats.TotalLogins, err = t.logins.CountSince(ctx, since); err != nil {
		return LoginStats{}, unavailable("login stats", err)
	}
	if stats.UniqueUsers, err = t.logins.CountUsersSince(ctx, since); err != nil {
		return LoginStats{}, unavailable("login stats", err)
	}
	if stats.FailedAttempts, err = t.failed.CountSince(ctx, since); err != nil {
		return LoginStats{}, unavailable("login stats", err)
	}
	if stats.DailyLogins, err = t.logins.DailyCountsSince(ctx, since); err != nil {
		return LoginStats{}, unavailable("login stats", err)
	}
	return stats, nil
}

// SignupStats aggregates signups in the trailing days.
func (t *Tracker) SignupStats(ctx context.Context, days int) (stats SignupStats, err error) {
	defer metrics.ObserveStore("signup_stats", time.Now(), &err)

	if days < 0 {
		days = 0
	}
	since := t.windowStart(days, day)
	stats.PeriodDays = days

	if stats.TotalSignups, err = t.signups.CountSince(ctx, since); err != nil {
		return SignupStats{}, unavailable("signup stats", err)
	}
	if stats.DailySignups, err = t.signups.DailyCountsSince(ctx, since); err != nil {
		return SignupStats{}, unavailable("signup stats", err)
	}
	return stats, nil
}

// ActivitySummary returns the user's login, activity and session totals.
// LastLogin is nil when the user has never logged in.
func (t *Tracker) ActivitySummary(ctx context.Context, userID int64) (sum Summary, err error) {
	defer metrics.ObserveStore("activity_summary", time.Now(), &err)

	if sum.TotalLogins, err = t.logins.CountByUser(ctx, userID); err != nil {
		return Summary{}, unavailable("activity summary", err)
	}
	if sum.LastLogin, err = t.logins.LastLogin(ctx, userID); err != nil {
		return Summary{}, unavailable("activity summary", err)
	}
	if sum.TotalActivities, err = t.activity.CountByUser(ctx, userID); err != nil {
		return Summary{}, unavailable("activity summary", err)
	}
	if sum.ActiveSessions, err = t.sessions.CountActiveByUser(ctx, userID); err != nil {
		return Summary{}, unavailable("activity summary", err)
	}
	return sum, nil
}
