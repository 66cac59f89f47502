// internal/app/features/activity/routes.go
package activity

import (
	"github.com/dalemusser/stratatrack/internal/app/system/apicors"
	"github.com/dalemusser/stratatrack/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the reporting API.
//
// User endpoints authenticate with the caller's session token and touch the
// session. Admin endpoints authenticate with the API key.
func Routes(h *Handler, apiKey string) chi.Router {
	r := chi.NewRouter()
	r.Use(apicors.Middleware())

	// Own history
	r.Group(func(ur chi.Router) {
		ur.Use(auth.SessionAuth(h.Tracker, h.Recorder, h.Log))

		ur.Get("/my-logins", h.ServeMyLogins)
		ur.Get("/my-activity", h.ServeMyActivity)
		ur.Get("/my-sessions", h.ServeMySessions)
		ur.Get("/my-summary", h.ServeMySummary)
	})

	// Statistics and any user's history
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(auth.APIKeyAuth(apiKey, h.Log))

		ar.Get("/login-stats", h.ServeLoginStats)
		ar.Get("/signup-stats", h.ServeSignupStats)
		ar.Get("/recent-signups", h.ServeRecentSignups)
		ar.Get("/failed-logins/{email}", h.ServeFailedLogins)

		ar.Route("/user/{userID}", func(ur chi.Router) {
			ur.Get("/logins", h.ServeUserLogins)
			ur.Get("/activity", h.ServeUserActivity)
			ur.Get("/summary", h.ServeUserSummary)
			ur.Get("/sessions", h.ServeUserSessions)
		})
	})

	return r
}
