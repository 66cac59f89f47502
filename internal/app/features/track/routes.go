package track

import (
	"net/http"

	"github.com/dalemusser/stratatrack/internal/app/system/apicors"
	"github.com/dalemusser/stratatrack/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns a router with the ingest endpoints.
//
// Authentication is via API key (Bearer token in Authorization header).
// CORS is permissive since no cookies are involved.
func Routes(h *Handler, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(apicors.Middleware())
	r.Use(auth.APIKeyAuth(apiKey, logger))

	r.Post("/logins", h.RecordLogin)
	r.Post("/failed-logins", h.RecordFailedLogin)
	r.Post("/signups", h.RecordSignup)
	r.Post("/activities", h.RecordActivity)

	r.Route("/sessions", func(sr chi.Router) {
		sr.Post("/", h.OpenSession)
		sr.Post("/{token}/touch", h.TouchSession)
		sr.Post("/{token}/close", h.CloseSession)
	})

	return r
}
