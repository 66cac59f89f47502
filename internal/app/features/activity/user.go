// internal/app/features/activity/user.go
package activity

import (
	"net/http"

	"github.com/dalemusser/stratatrack/internal/app/system/auth"
	"github.com/dalemusser/stratatrack/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatrack/internal/app/system/timeouts"
	"github.com/dalemusser/stratatrack/internal/domain/models"
)

// caller returns the session SessionAuth placed in the context.
func caller(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	s, ok := auth.CurrentSession(r)
	if !ok {
		jsonutil.Unauthorized(w, "session is not active")
		return nil, false
	}
	return s, true
}

// ServeMyLogins handles GET /my-logins?limit=50.
func (h *Handler) ServeMyLogins(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	limit, err := queryLimit(r, h.Defaults.LoginLimit)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "my logins")
	defer cancel()

	history, err := h.Tracker.LoginHistory(ctx, me.UserID, limit)
	if err != nil {
		h.storeError(w, "my_logins", err)
		return
	}
	jsonutil.OK(w, loginsResponse{
		UserID:       me.UserID,
		Email:        me.Email,
		LoginHistory: history,
		TotalLogins:  len(history),
	})
}

// ServeMyActivity handles GET /my-activity?limit=100.
func (h *Handler) ServeMyActivity(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	limit, err := queryLimit(r, h.Defaults.ActivityLimit)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "my activity")
	defer cancel()

	events, err := h.Tracker.UserActivity(ctx, me.UserID, limit)
	if err != nil {
		h.storeError(w, "my_activity", err)
		return
	}
	jsonutil.OK(w, activitiesResponse{
		UserID:          me.UserID,
		Email:           me.Email,
		Activities:      events,
		TotalActivities: len(events),
	})
}

// ServeMySessions handles GET /my-sessions. The caller's own session is
// flagged with "current": true.
func (h *Handler) ServeMySessions(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "my sessions")
	defer cancel()

	sessions, err := h.Tracker.ActiveSessions(ctx, me.UserID)
	if err != nil {
		h.storeError(w, "my_sessions", err)
		return
	}
	views := toSessionViews(sessions, me.SessionToken)
	jsonutil.OK(w, sessionsResponse{
		UserID:         me.UserID,
		Email:          me.Email,
		ActiveSessions: views,
		SessionCount:   len(views),
	})
}

// ServeMySummary handles GET /my-summary.
func (h *Handler) ServeMySummary(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "my summary")
	defer cancel()

	sum, err := h.Tracker.ActivitySummary(ctx, me.UserID)
	if err != nil {
		h.storeError(w, "my_summary", err)
		return
	}
	jsonutil.OK(w, summaryResponse{UserID: me.UserID, Email: me.Email, Summary: sum})
}
