// internal/app/features/activity/admin.go
package activity

import (
	"net/http"

	"github.com/dalemusser/stratatrack/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatrack/internal/app/system/timeouts"
)

// ServeLoginStats handles GET /admin/login-stats?days=30.
func (h *Handler) ServeLoginStats(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", h.Defaults.StatsDays)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "login stats")
	defer cancel()

	stats, err := h.Tracker.LoginStats(ctx, days)
	if err != nil {
		h.storeError(w, "login_stats", err)
		return
	}
	jsonutil.OK(w, stats)
}

// ServeSignupStats handles GET /admin/signup-stats?days=30.
func (h *Handler) ServeSignupStats(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", h.Defaults.StatsDays)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "signup stats")
	defer cancel()

	stats, err := h.Tracker.SignupStats(ctx, days)
	if err != nil {
		h.storeError(w, "signup_stats", err)
		return
	}
	jsonutil.OK(w, stats)
}

// ServeRecentSignups handles GET /admin/recent-signups?days=7&limit=100.
func (h *Handler) ServeRecentSignups(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", h.Defaults.SignupDays)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	limit, err := queryLimit(r, h.Defaults.SignupLimit)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "recent signups")
	defer cancel()

	signups, err := h.Tracker.RecentSignups(ctx, days, limit)
	if err != nil {
		h.storeError(w, "recent_signups", err)
		return
	}
	jsonutil.OK(w, recentSignupsResponse{
		Signups:    signups,
		Count:      len(signups),
		PeriodDays: max(days, 0),
	})
}

// ServeFailedLogins handles GET /admin/failed-logins/{email}?hours=24.
func (h *Handler) ServeFailedLogins(w http.ResponseWriter, r *http.Request) {
	email, err := pathEmail(r)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	hours, err := queryInt(r, "hours", h.Defaults.FailedHours)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "failed logins")
	defer cancel()

	attempts, err := h.Tracker.FailedLogins(ctx, email, hours)
	if err != nil {
		h.storeError(w, "failed_logins", err)
		return
	}
	jsonutil.OK(w, failedLoginsResponse{
		Email:          email,
		FailedAttempts: attempts,
		Count:          len(attempts),
		PeriodHours:    max(hours, 0),
	})
}

// ServeUserLogins handles GET /admin/user/{userID}/logins?limit=50.
func (h *Handler) ServeUserLogins(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	limit, err := queryLimit(r, h.Defaults.LoginLimit)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "user logins")
	defer cancel()

	history, err := h.Tracker.LoginHistory(ctx, userID, limit)
	if err != nil {
		h.storeError(w, "user_logins", err)
		return
	}
	jsonutil.OK(w, loginsResponse{
		UserID:       userID,
		LoginHistory: history,
		TotalLogins:  len(history),
	})
}

// ServeUserActivity handles GET /admin/user/{userID}/activity?limit=100.
func (h *Handler) ServeUserActivity(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	limit, err := queryLimit(r, h.Defaults.ActivityLimit)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "user activity")
	defer cancel()

	events, err := h.Tracker.UserActivity(ctx, userID, limit)
	if err != nil {
		h.storeError(w, "user_activity", err)
		return
	}
	jsonutil.OK(w, activitiesResponse{
		UserID:          userID,
		Activities:      events,
		TotalActivities: len(events),
	})
}

// ServeUserSummary handles GET /admin/user/{userID}/summary.
func (h *Handler) ServeUserSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "user summary")
	defer cancel()

	sum, err := h.Tracker.ActivitySummary(ctx, userID)
	if err != nil {
		h.storeError(w, "user_summary", err)
		return
	}
	jsonutil.OK(w, summaryResponse{UserID: userID, Summary: sum})
}

// ServeUserSessions handles GET /admin/user/{userID}/sessions.
func (h *Handler) ServeUserSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "user sessions")
	defer cancel()

	sessions, err := h.Tracker.ActiveSessions(ctx, userID)
	if err != nil {
		h.storeError(w, "user_sessions", err)
		return
	}
	views := toSessionViews(sessions, "")
	jsonutil.OK(w, sessionsResponse{
		UserID:         userID,
		ActiveSessions: views,
		SessionCount:   len(views),
	})
}
