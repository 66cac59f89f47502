// internal/app/system/tracking/recorder.go
package tracking

import (
	"context"

	"github.com/dalemusser/stratatrack/internal/app/system/metrics"
	"github.com/dalemusser/stratatrack/internal/domain/models"
	"go.uber.org/zap"
)

// Writer is the write path of a Tracker.
type Writer interface {
	RecordLogin(ctx context.Context, userID int64, email, ip, userAgent string, device models.Device) (string, error)
	RecordFailedLogin(ctx context.Context, email, ip, userAgent, reason string) (string, error)
	RecordSignup(ctx context.Context, userID int64, email, fullName, ip, userAgent string, device models.Device, referralSource string) (string, error)
	RecordActivity(ctx context.Context, userID int64, email, activityType, description, ip string, metadata models.Metadata) (string, error)
	OpenSession(ctx context.Context, userID int64, email, token, ip string) (string, error)
	TouchSession(ctx context.Context, token string) error
	CloseSession(ctx context.Context, token string) error
}

// Recorder wraps a Writer for auth and registration call sites. Tracking is
// diagnostic: a failed write is logged and counted, never returned, so the
// surrounding operation always proceeds.
type Recorder struct {
	w      Writer
	zapLog *zap.Logger
}

// NewRecorder creates a Recorder. A nil logger discards failure logs.
func NewRecorder(w Writer, zapLog *zap.Logger) *Recorder {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Recorder{w: w, zapLog: zapLog}
}

func (r *Recorder) fail(op string, err error, fields ...zap.Field) {
	metrics.WriteFailures.WithLabelValues(op).Inc()
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	r.zapLog.Warn("tracking write failed", fields...)
}

// Login records a successful login. ok is false if the write failed.
func (r *Recorder) Login(ctx context.Context, userID int64, email, ip, userAgent string, device models.Device) (id string, ok bool) {
	id, err := r.w.RecordLogin(ctx, userID, email, ip, userAgent, device)
	if err != nil {
		r.fail("record_login", err, zap.Int64("user_id", userID))
		return "", false
	}
	return id, true
}

// FailedLogin records a rejected authentication.
func (r *Recorder) FailedLogin(ctx context.Context, email, ip, userAgent, reason string) (id string, ok bool) {
	id, err := r.w.RecordFailedLogin(ctx, email, ip, userAgent, reason)
	if err != nil {
		r.fail("record_failed_login", err, zap.String("email", email))
		return "", false
	}
	return id, true
}

// Signup records a registration.
func (r *Recorder) Signup(ctx context.Context, userID int64, email, fullName, ip, userAgent string, device models.Device, referralSource string) (id string, ok bool) {
	id, err := r.w.RecordSignup(ctx, userID, email, fullName, ip, userAgent, device, referralSource)
	if err != nil {
		r.fail("record_signup", err, zap.Int64("user_id", userID))
		return "", false
	}
	return id, true
}

// Activity records a tagged activity event.
func (r *Recorder) Activity(ctx context.Context, userID int64, email, activityType, description, ip string, metadata models.Metadata) (id string, ok bool) {
	id, err := r.w.RecordActivity(ctx, userID, email, activityType, description, ip, metadata)
	if err != nil {
		r.fail("record_activity", err, zap.Int64("user_id", userID), zap.String("activity_type", activityType))
		return "", false
	}
	return id, true
}

// OpenSession records a new active session. A token collision is logged
// like any other failure; the caller's login still succeeds.
func (r *Recorder) OpenSession(ctx context.Context, userID int64, email, token, ip string) (id string, ok bool) {
	id, err := r.w.OpenSession(ctx, userID, email, token, ip)
	if err != nil {
		r.fail("open_session", err, zap.Int64("user_id", userID))
		return "", false
	}
	return id, true
}

// TouchSession moves last_activity forward on an active session.
func (r *Recorder) TouchSession(ctx context.Context, token string) bool {
	if err := r.w.TouchSession(ctx, token); err != nil {
		r.fail("touch_session", err)
		return false
	}
	return true
}

// CloseSession ends a session.
func (r *Recorder) CloseSession(ctx context.Context, token string) bool {
	if err := r.w.CloseSession(ctx, token); err != nil {
		r.fail("close_session", err)
		return false
	}
	return true
}
