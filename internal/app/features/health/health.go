// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/stratatrack/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatrack/internal/app/system/metrics"
	"github.com/dalemusser/stratatrack/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler provides health check endpoints.
type Handler struct {
	mongo  Pinger
	logger *zap.Logger
}

// NewHandler creates a new health check Handler.
func NewHandler(mongo Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		mongo:  mongo,
		logger: logger,
	}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with health check routes mounted.
// Provides /health (full check), /health/ready, and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the probe endpoints and the Prometheus scrape
// endpoint directly on the root router:
//   - /ready (or /readyz) - readiness probe
//   - /livez - liveness probe
//   - /metrics - Prometheus exposition
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
	r.Handle("/metrics", metrics.Handler())
}

func (h *Handler) ping(r *http.Request) error {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.logger, "mongodb ping")
	defer cancel()
	return h.mongo.Ping(ctx, readpref.Primary())
}

// Check performs a full health check including database connectivity.
// Tracking writes are best effort, so a failed ping reports "degraded".
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Status:   "ok",
		Services: make(map[string]string),
	}

	if err := h.ping(r); err != nil {
		resp.Status = "degraded"
		resp.Services["mongodb"] = "unavailable"
		h.logger.Warn("health check: mongodb ping failed", zap.Error(err))
	} else {
		resp.Services["mongodb"] = "ok"
	}

	if resp.Status != "ok" {
		jsonutil.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	jsonutil.OK(w, resp)
}

// Ready checks if the service is ready to accept requests.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, Response{Status: "not ready"})
		return
	}
	jsonutil.OK(w, Response{Status: "ready"})
}

// Live checks if the process is serving.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{Status: "alive"})
}
