// Package track provides the ingest API the surrounding backend calls from
// its login, registration and logout handlers.
//
// Endpoints (mounted at /api/track, API key bearer auth):
//   - POST /logins                   - Record a successful login
//   - POST /failed-logins            - Record a rejected authentication
//   - POST /signups                  - Record a registration
//   - POST /activities               - Record a tagged activity event
//   - POST /sessions                 - Open a session (token minted when absent)
//   - POST /sessions/{token}/touch   - Move last_activity forward
//   - POST /sessions/{token}/close   - End a session
//
// Writes are best effort. A stored event answers 201 with its id; a dropped
// write answers 202 with {"recorded": false} so the caller's own flow never
// fails because tracking did.
package track

// Terminology: User Identifiers
//   - UserID / userID / user_id: The integer id assigned by the primary user store
//   - SessionToken / token: The bearer credential issued at login and tracked in user_sessions

import (
	"net/http"

	"github.com/dalemusser/stratatrack/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratatrack/internal/app/system/inputval"
	"github.com/dalemusser/stratatrack/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatrack/internal/app/system/network"
	"github.com/dalemusser/stratatrack/internal/app/system/normalize"
	"github.com/dalemusser/stratatrack/internal/app/system/timeouts"
	"github.com/dalemusser/stratatrack/internal/app/system/tracking"
	"github.com/dalemusser/stratatrack/internal/app/system/useragent"
	"github.com/dalemusser/stratatrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the ingest endpoints.
type Handler struct {
	rec    *tracking.Recorder
	logger *zap.Logger
}

// NewHandler creates a new track handler.
func NewHandler(rec *tracking.Recorder, logger *zap.Logger) *Handler {
	return &Handler{rec: rec, logger: logger}
}

type loginInput struct {
	UserID    int64  `json:"user_id" validate:"required,gt=0"`
	Email     string `json:"email" validate:"required,email,max=254"`
	IPAddress string `json:"ip_address" validate:"omitempty,ip"`
	UserAgent string `json:"user_agent" validate:"max=1024"`
	Location  string `json:"location" validate:"max=200"`
}

type failedLoginInput struct {
	Email     string `json:"email" validate:"required,max=254"`
	IPAddress string `json:"ip_address" validate:"omitempty,ip"`
	UserAgent string `json:"user_agent" validate:"max=1024"`
	Reason    string `json:"reason" validate:"max=500"`
}

type signupInput struct {
	UserID         int64  `json:"user_id" validate:"required,gt=0"`
	Email          string `json:"email" validate:"required,email,max=254"`
	FullName       string `json:"full_name" validate:"max=200"`
	IPAddress      string `json:"ip_address" validate:"omitempty,ip"`
	UserAgent      string `json:"user_agent" validate:"max=1024"`
	Location       string `json:"location" validate:"max=200"`
	ReferralSource string `json:"referral_source" validate:"max=200"`
}

type activityInput struct {
	UserID       int64          `json:"user_id" validate:"required,gt=0"`
	Email        string         `json:"email" validate:"required,email,max=254"`
	ActivityType string         `json:"activity_type" validate:"required,notblank,max=64"`
	Description  string         `json:"description" validate:"max=2000"`
	IPAddress    string         `json:"ip_address" validate:"omitempty,ip"`
	Metadata     map[string]any `json:"metadata"`
}

type sessionInput struct {
	UserID       int64  `json:"user_id" validate:"required,gt=0"`
	Email        string `json:"email" validate:"required,email,max=254"`
	SessionToken string `json:"session_token" validate:"omitempty,token,max=256"`
	IPAddress    string `json:"ip_address" validate:"omitempty,ip"`
}

// decode reads and validates the body into v. It writes the 400 response
// and returns false when the body is unusable.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := jsonutil.Decode(w, r, v); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return false
	}
	if res := inputval.Validate(v); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return false
	}
	return true
}

// clientIP prefers the address the caller put in the body, then the
// forwarding headers. The calling backend's own address is never recorded.
func clientIP(fromBody string, r *http.Request) string {
	if fromBody != "" {
		return fromBody
	}
	return network.ForwardedIP(r)
}

func recorded(w http.ResponseWriter, id string, ok bool) {
	if !ok {
		jsonutil.Accepted(w, map[string]any{"recorded": false})
		return
	}
	jsonutil.Created(w, map[string]any{"id": id})
}

// RecordLogin handles POST /logins.
//
// Request body:
//
//	{
//	    "user_id": 42,
//	    "email": "user@example.com",
//	    "ip_address": "203.0.113.7",
//	    "user_agent": "Mozilla/5.0 ...",
//	    "location": "Almaty"
//	}
func (h *Handler) RecordLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if !h.decode(w, r, &in) {
		return
	}
	device := useragent.Parse(in.UserAgent).Device(htmlsanitize.PlainText(in.Location))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.logger, "record login")
	defer cancel()

	id, ok := h.rec.Login(ctx, in.UserID, normalize.Email(in.Email), clientIP(in.IPAddress, r), in.UserAgent, device)
	recorded(w, id, ok)
}

// RecordFailedLogin handles POST /failed-logins. An empty reason is stored
// as "Invalid credentials".
func (h *Handler) RecordFailedLogin(w http.ResponseWriter, r *http.Request) {
	var in failedLoginInput
	if !h.decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.logger, "record failed login")
	defer cancel()

	id, ok := h.rec.FailedLogin(ctx, normalize.Email(in.Email), clientIP(in.IPAddress, r), in.UserAgent, htmlsanitize.PlainText(in.Reason))
	recorded(w, id, ok)
}

// RecordSignup handles POST /signups.
func (h *Handler) RecordSignup(w http.ResponseWriter, r *http.Request) {
	var in signupInput
	if !h.decode(w, r, &in) {
		return
	}
	device := useragent.Parse(in.UserAgent).Device(htmlsanitize.PlainText(in.Location))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.logger, "record signup")
	defer cancel()

	id, ok := h.rec.Signup(ctx, in.UserID, normalize.Email(in.Email),
		htmlsanitize.PlainText(in.FullName),
		clientIP(in.IPAddress, r), in.UserAgent, device,
		normalize.Label(htmlsanitize.PlainText(in.ReferralSource)),
	)
	recorded(w, id, ok)
}

// RecordActivity handles POST /activities.
//
// Request body:
//
//	{
//	    "user_id": 42,
//	    "email": "user@example.com",
//	    "activity_type": "prediction",
//	    "description": "Uploaded scan for classification",
//	    "metadata": {"prediction_id": 17, "confidence": 0.93}
//	}
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var in activityInput
	if !h.decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.logger, "record activity")
	defer cancel()

	id, ok := h.rec.Activity(ctx, in.UserID, normalize.Email(in.Email), normalize.Label(in.ActivityType),
		htmlsanitize.PlainText(in.Description),
		clientIP(in.IPAddress, r), models.Metadata(in.Metadata),
	)
	recorded(w, id, ok)
}

// OpenSession handles POST /sessions. When the body carries no token one is
// minted; the token is echoed in both the 201 and 202 responses so the
// caller can hand it to the client either way.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var in sessionInput
	if !h.decode(w, r, &in) {
		return
	}
	token := in.SessionToken
	if token == "" {
		token = uuid.NewString()
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.logger, "open session")
	defer cancel()

	id, ok := h.rec.OpenSession(ctx, in.UserID, normalize.Email(in.Email), token, clientIP(in.IPAddress, r))
	if !ok {
		jsonutil.Accepted(w, map[string]any{"recorded": false, "session_token": token})
		return
	}
	jsonutil.Created(w, map[string]any{"id": id, "session_token": token})
}

// TouchSession handles POST /sessions/{token}/touch. An unknown or closed
// token is not an error.
func (h *Handler) TouchSession(w http.ResponseWriter, r *http.Request) {
	token, ok := pathToken(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.logger, "touch session")
	defer cancel()

	if !h.rec.TouchSession(ctx, token) {
		jsonutil.Accepted(w, map[string]any{"recorded": false})
		return
	}
	jsonutil.NoContent(w)
}

// CloseSession handles POST /sessions/{token}/close. Closing twice is a no-op.
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	token, ok := pathToken(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.logger, "close session")
	defer cancel()

	if !h.rec.CloseSession(ctx, token) {
		jsonutil.Accepted(w, map[string]any{"recorded": false})
		return
	}
	jsonutil.NoContent(w)
}

func pathToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := chi.URLParam(r, "token")
	if !inputval.IsValidToken(token) {
		jsonutil.BadRequest(w, "invalid session token")
		return "", false
	}
	return token, true
}
