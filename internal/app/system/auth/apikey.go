package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/dalemusser/stratatrack/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatrack/internal/app/system/network"
	"go.uber.org/zap"
)

// APIKeyAuth returns middleware that validates API key authentication.
//
// The key is read from "Authorization: Bearer <api-key>". The ingest API and
// the admin reporting endpoints are mounted behind it:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(auth.APIKeyAuth(appCfg.APIKey, logger))
//	    r.Mount("/api/track", track.Routes(trackHandler))
//	})
//
// If the API key is invalid or missing, returns 401 Unauthorized.
// If the API key is not configured (empty), logs a warning and rejects all requests.
func APIKeyAuth(validKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	if validKey == "" {
		logger.Warn("API key not configured - all API requests will be rejected")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validKey == "" {
				logger.Warn("API request rejected: API key not configured",
					zap.String("path", r.URL.Path),
					zap.String("client_ip", network.GetClientIP(r)),
				)
				jsonutil.Unauthorized(w, "API authentication not configured")
				return
			}

			providedKey, ok := bearerToken(r)
			if !ok {
				logger.Debug("API request rejected: missing or malformed Authorization header",
					zap.String("path", r.URL.Path),
				)
				jsonutil.Unauthorized(w, "expected Authorization: Bearer <api-key>")
				return
			}

			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(validKey)) != 1 {
				logger.Warn("API request rejected: invalid API key",
					zap.String("path", r.URL.Path),
					zap.String("client_ip", network.GetClientIP(r)),
				)
				jsonutil.Unauthorized(w, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
