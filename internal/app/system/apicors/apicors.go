// Package apicors provides CORS middleware for API endpoints that use
// bearer authentication instead of cookies.
//
// With bearer credentials there are no cookies to protect, so any origin is
// allowed and AllowCredentials is never set. Both the ingest API (API key)
// and the reporting API (session token) are mounted behind it.
package apicors

import (
	"net/http"
)

// Middleware returns CORS middleware suitable for bearer authenticated
// endpoints. Preflight OPTIONS requests are answered with 204 and never
// reach authentication.
//
// Usage in routes.go:
//
//	r := chi.NewRouter()
//	r.Use(apicors.Middleware())
//	r.Use(auth.APIKeyAuth(apiKey, logger))
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept, X-Forwarded-For")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
