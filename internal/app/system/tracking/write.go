package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/stratatrack/internal/app/store/sessions"
	"github.com/dalemusser/stratatrack/internal/app/system/metrics"
	"github.com/dalemusser/stratatrack/internal/domain/models"
)

// RecordLogin stores a successful login and returns its id.
func (t *Tracker) RecordLogin(ctx context.Context, userID int64, email, ip, userAgent string, device models.Device) (id string, err error) {
	defer metrics.ObserveStore("record_login", time.Now(), &err)

	ev := models.LoginEvent{
		UserID:    userID,
		Email:     email,
		LoginTime: t.clock(),
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   true,
	}
	ev.ApplyDevice(device)

	oid, err := t.logins.Create(ctx, ev)
	if err != nil {
		return "", unavailable("record login", err)
	}
	return oid.Hex(), nil
}

// RecordFailedLogin stores a rejected authentication. An empty reason is
// stored as "Invalid credentials".
func (t *Tracker) RecordFailedLogin(ctx context.Context, email, ip, userAgent, reason string) (id string, err error) {
	defer metrics.ObserveStore("record_failed_login", time.Now(), &err)

	oid, err := t.failed.Create(ctx, models.FailedLoginAttempt{
		Email:       email,
		AttemptTime: t.clock(),
		IPAddress:   ip,
		UserAgent:   userAgent,
		Reason:      reason,
	})
	if err != nil {
		return "", unavailable("record failed login", err)
	}
	return oid.Hex(), nil
}

// RecordSignup stores a registration. The caller records each user once.
func (t *Tracker) RecordSignup(ctx context.Context, userID int64, email, fullName, ip, userAgent string, device models.Device, referralSource string) (id string, err error) {
	defer metrics.ObserveStore("record_signup", time.Now(), &err)

	ev := models.SignupEvent{
		UserID:         userID,
		Email:          email,
		FullName:       fullName,
		SignupTime:     t.clock(),
		IPAddress:      ip,
		UserAgent:      userAgent,
		ReferralSource: referralSource,
	}
	ev.ApplyDevice(device)

	oid, err := t.signups.Create(ctx, ev)
	if err != nil {
		return "", unavailable("record signup", err)
	}
	return oid.Hex(), nil
}

// RecordActivity stores a tagged activity event. metadata may be nil.
func (t *Tracker) RecordActivity(ctx context.Context, userID int64, email, activityType, description, ip string, metadata models.Metadata) (id string, err error) {
	defer metrics.ObserveStore("record_activity", time.Now(), &err)

	text, err := metadata.Encode()
	if err != nil {
		return "", fmt.Errorf("record activity: %w: %w", ErrInvalidMetadata, err)
	}

	oid, err := t.activity.Create(ctx, models.ActivityEvent{
		UserID:       userID,
		Email:        email,
		ActivityType: activityType,
		Description:  description,
		Timestamp:    t.clock(),
		IPAddress:    ip,
		MetadataText: text,
		Metadata:     metadata,
	})
	if err != nil {
		return "", unavailable("record activity", err)
	}
	return oid.Hex(), nil
}

// OpenSession stores a new active session for token. A token that is
// already stored is rejected with ErrTokenInUse.
func (t *Tracker) OpenSession(ctx context.Context, userID int64, email, token, ip string) (id string, err error) {
	defer metrics.ObserveStore("open_session", time.Now(), &err)

	oid, err := t.sessions.Create(ctx, models.Session{
		UserID:       userID,
		Email:        email,
		SessionToken: token,
		LoginTime:    t.clock(),
		IPAddress:    ip,
	})
	if errors.Is(err, sessions.ErrDuplicateToken) {
		return "", ErrTokenInUse
	}
	if err != nil {
		return "", unavailable("open session", err)
	}
	return oid.Hex(), nil
}

// TouchSession moves last_activity of the active session to now. An unknown
// or closed token is a no-op.
func (t *Tracker) TouchSession(ctx context.Context, token string) (err error) {
	defer metrics.ObserveStore("touch_session", time.Now(), &err)

	if _, err = t.sessions.Touch(ctx, token, t.clock()); err != nil {
		return unavailable("touch session", err)
	}
	return nil
}

// CloseSession deactivates the session and records logout_time. Closing an
// unknown or already closed token is a no-op.
func (t *Tracker) CloseSession(ctx context.Context, token string) (err error) {
	defer metrics.ObserveStore("close_session", time.Now(), &err)

	if _, err = t.sessions.Close(ctx, token, t.clock()); err != nil {
		return unavailable("close session", err)
	}
	return nil
}
