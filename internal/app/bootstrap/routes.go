// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	activityfeature "github.com/dalemusser/stratatrack/internal/app/features/activity"
	healthfeature "github.com/dalemusser/stratatrack/internal/app/features/health"
	trackfeature "github.com/dalemusser/stratatrack/internal/app/features/track"
	"github.com/dalemusser/stratatrack/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Route layout:
//   - /api/track/*     ingest API (API key auth)
//   - /api/activity/*  reporting API (session token for my-*, API key for admin/*)
//   - /health, /ready, /readyz, /livez, /metrics
//
// No route uses cookies, so there is no CSRF layer: every client
// authenticates with a bearer credential.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// Request count and latency by route pattern.
	r.Use(metrics.Middleware)

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// ─────────────────────────────────────────────────────────────────────────────
	// Ingest API
	// Called by the backend's login, registration and logout handlers.
	// Writes are best effort: a dropped write answers 202, never 5xx.
	// ─────────────────────────────────────────────────────────────────────────────
	trackHandler := trackfeature.NewHandler(deps.Recorder, logger.Named("track"))
	r.Mount("/api/track", trackfeature.Routes(trackHandler, appCfg.APIKey, logger))

	// ─────────────────────────────────────────────────────────────────────────────
	// Reporting API
	// ─────────────────────────────────────────────────────────────────────────────
	activityHandler := activityfeature.NewHandler(deps.Tracker, deps.Recorder, activityfeature.Defaults{
		LoginLimit:    appCfg.DefaultHistoryLimit,
		ActivityLimit: appCfg.DefaultActivityLimit,
		StatsDays:     appCfg.DefaultStatsDays,
		SignupDays:    appCfg.DefaultSignupDays,
		FailedHours:   appCfg.DefaultFailedHours,
	}, logger.Named("activity"))
	r.Mount("/api/activity", activityfeature.Routes(activityHandler, appCfg.APIKey))

	// Health check endpoints for load balancers and orchestrators, plus /metrics
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	return r, nil
}
