// internal/app/system/tracking/tracker.go
package tracking

// Terminology: User Identifiers
//   - UserID / userID / user_id: The integer id assigned by the primary user store
//   - Email: Recorded as given; failed attempts are keyed by it

import (
	"context"
	"fmt"
	"math"
	"time"

	activitystore "github.com/dalemusser/stratatrack/internal/app/store/activity"
	"github.com/dalemusser/stratatrack/internal/app/store/failedlogins"
	loginstore "github.com/dalemusser/stratatrack/internal/app/store/logins"
	"github.com/dalemusser/stratatrack/internal/app/store/sessions"
	signupstore "github.com/dalemusser/stratatrack/internal/app/store/signups"
	"github.com/dalemusser/stratatrack/internal/app/system/indexes"
	"github.com/dalemusser/stratatrack/internal/app/system/validators"
	"go.mongodb.org/mongo-driver/mongo"
)

// Tracker owns the five tracking collections. Every method is a single
// store command on the shared client and may be called concurrently.
type Tracker struct {
	logins   *loginstore.Store
	signups  *signupstore.Store
	activity *activitystore.Store
	failed   *failedlogins.Store
	sessions *sessions.Store
	now      func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock used for timestamps and window starts.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// New returns a Tracker over db. It does not touch the database; call
// Initialize once at startup.
func New(db *mongo.Database, opts ...Option) *Tracker {
	t := &Tracker{
		logins:   loginstore.New(db),
		signups:  signupstore.New(db),
		activity: activitystore.New(db),
		failed:   failedlogins.New(db),
		sessions: sessions.New(db),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Initialize creates the tracking collections, attaches their validators and
// ensures indexes. It is idempotent.
func Initialize(ctx context.Context, db *mongo.Database) error {
	if err := validators.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

func (t *Tracker) clock() time.Time {
	return t.now().UTC()
}

// windowStart returns now minus n units. Negative n is treated as 0, and n
// is capped at the longest span a time.Duration can hold (about 292 years),
// so an oversized window covers all history instead of wrapping around.
func (t *Tracker) windowStart(n int, unit time.Duration) time.Time {
	if n < 0 {
		n = 0
	}
	if longest := int64(math.MaxInt64) / int64(unit); int64(n) > longest {
		return t.clock().Add(-time.Duration(longest) * unit)
	}
	return t.clock().Add(-time.Duration(n) * unit)
}
