package track

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dalemusser/stratatrack/internal/app/system/tracking"
	"github.com/dalemusser/stratatrack/internal/app/system/useragent"
	"github.com/dalemusser/stratatrack/internal/testutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func setup(t *testing.T, db *mongo.Database) (http.Handler, *tracking.Tracker) {
	t.Helper()
	tr := tracking.New(db)
	h := NewHandler(tracking.NewRecorder(tr, zap.NewNop()), zap.NewNop())
	return Routes(h, testutil.TestAPIKey, zap.NewNop()), tr
}

func serve(router http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecordLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router, tr := setup(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewAdminRequest(http.MethodPost, "/logins", map[string]any{
		"user_id":    42,
		"email":      "user@example.com",
		"user_agent": iphoneUA,
		"location":   "Almaty",
	})
	req.Header.Set("X-Forwarded-For", "198.51.100.2, 10.0.0.1")

	rec := serve(router, req)
	rec.AssertStatus(t, http.StatusCreated)

	var resp struct {
		ID string `json:"id"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.ID == "" {
		t.Fatal("response id should not be empty")
	}

	history, err := tr.LoginHistory(ctx, 42, 0)
	if err != nil {
		t.Fatalf("LoginHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("LoginHistory() count = %d, want 1", len(history))
	}
	got := history[0]
	if got.ID.Hex() != resp.ID {
		t.Errorf("stored id = %s, want %s", got.ID.Hex(), resp.ID)
	}
	if got.IPAddress != "198.51.100.2" {
		t.Errorf("IPAddress = %q, want forwarded first hop", got.IPAddress)
	}
	if got.DeviceType != useragent.Mobile || got.Browser != "Safari" || got.OS != "iOS" {
		t.Errorf("device = %s/%s/%s, want Mobile/Safari/iOS", got.DeviceType, got.Browser, got.OS)
	}
	if got.Location != "Almaty" {
		t.Errorf("Location = %q, want Almaty", got.Location)
	}
	if !got.Success {
		t.Error("login should be recorded as successful")
	}
}

func TestRecordLogin_BodyIPWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router, tr := setup(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewAdminRequest(http.MethodPost, "/logins", map[string]any{
		"user_id":    42,
		"email":      "user@example.com",
		"ip_address": "203.0.113.7",
	})
	req.Header.Set("X-Forwarded-For", "198.51.100.2")
	serve(router, req).AssertStatus(t, http.StatusCreated)

	history, _ := tr.LoginHistory(ctx, 42, 0)
	if len(history) != 1 || history[0].IPAddress != "203.0.113.7" {
		t.Fatalf("history = %+v, want one login from 203.0.113.7", history)
	}
	if history[0].DeviceType != "" {
		t.Errorf("DeviceType = %q, want empty without user agent", history[0].DeviceType)
	}
}

func TestIngest_RejectsBadRequests(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router, _ := setup(t, db)

	tests := []struct {
		name      string
		req       *http.Request
		wantCode  int
		wantField string
	}{
		{
			name:     "no api key",
			req:      testutil.NewJSONRequest(http.MethodPost, "/logins", map[string]any{"user_id": 1, "email": "a@b.co"}),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "wrong api key",
			req:      testutil.WithBearer(testutil.NewJSONRequest(http.MethodPost, "/logins", map[string]any{"user_id": 1, "email": "a@b.co"}), "nope"),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed json",
			req:      testutil.NewAdminRequest(http.MethodPost, "/logins", `{"user_id":`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown field",
			req:      testutil.NewAdminRequest(http.MethodPost, "/logins", map[string]any{"user_id": 1, "email": "a@b.co", "password": "x"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "missing email",
			req:       testutil.NewAdminRequest(http.MethodPost, "/logins", map[string]any{"user_id": 1}),
			wantCode:  http.StatusBadRequest,
			wantField: "email",
		},
		{
			name:      "zero user id",
			req:       testutil.NewAdminRequest(http.MethodPost, "/signups", map[string]any{"user_id": 0, "email": "a@b.co"}),
			wantCode:  http.StatusBadRequest,
			wantField: "user_id",
		},
		{
			name:      "bad ip",
			req:       testutil.NewAdminRequest(http.MethodPost, "/failed-logins", map[string]any{"email": "a@b.co", "ip_address": "not-an-ip"}),
			wantCode:  http.StatusBadRequest,
			wantField: "ip_address",
		},
		{
			name:      "blank activity type",
			req:       testutil.NewAdminRequest(http.MethodPost, "/activities", map[string]any{"user_id": 1, "email": "a@b.co", "activity_type": "  "}),
			wantCode:  http.StatusBadRequest,
			wantField: "activity_type",
		},
		{
			name:      "token with whitespace",
			req:       testutil.NewAdminRequest(http.MethodPost, "/sessions", map[string]any{"user_id": 1, "email": "a@b.co", "session_token": "a b"}),
			wantCode:  http.StatusBadRequest,
			wantField: "session_token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.req)
			rec.AssertStatus(t, tt.wantCode)
			if tt.wantField != "" {
				var resp struct {
					Fields map[string]string `json:"fields"`
				}
				rec.DecodeJSON(t, &resp)
				if _, ok := resp.Fields[tt.wantField]; !ok {
					t.Errorf("fields = %v, want entry for %q", resp.Fields, tt.wantField)
				}
			}
		})
	}
}

func TestRecordFailedLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router, tr := setup(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	serve(router, testutil.NewAdminRequest(http.MethodPost, "/failed-logins", map[string]any{
		"email": "x@y.z",
	})).AssertStatus(t, http.StatusCreated)
	serve(router, testutil.NewAdminRequest(http.MethodPost, "/failed-logins", map[string]any{
		"email":  "x@y.z",
		"reason": "<b>Account locked</b>",
	})).AssertStatus(t, http.StatusCreated)

	attempts, err := tr.FailedLogins(ctx, "x@y.z", 24)
	if err != nil {
		t.Fatalf("FailedLogins() error = %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("FailedLogins() count = %d, want 2", len(attempts))
	}
	reasons := map[string]bool{}
	for _, a := range attempts {
		reasons[a.Reason] = true
	}
	if !reasons["Invalid credentials"] || !reasons["Account locked"] {
		t.Errorf("reasons = %v, want default and sanitized reason", reasons)
	}
}

func TestRecordFailedLogin_NormalizesEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router, tr := setup(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	serve(router, testutil.NewAdminRequest(http.MethodPost, "/failed-logins", map[string]any{
		"email": "  User@Example.COM ",
	})).AssertStatus(t, http.StatusCreated)

	attempts, err := tr.FailedLogins(ctx, "user@example.com", 24)
	if err != nil {
		t.Fatalf("FailedLogins() error = %v", err)
	}
	if len(attempts) != 1 || attempts[0].Email != "user@example.com" {
		t.Errorf("attempts = %+v, want one for user@example.com", attempts)
	}
}

func TestRecordSignup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router, tr := setup(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	serve(router, testutil.NewAdminRequest(http.MethodPost, "/signups", map[string]any{
		"user_id":         9,
		"email":           "new@example.com",
		"full_name":       "<i>Ann</i> Lee",
		"user_agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0 Safari/537.36",
		"referral_source": "newsletter",
	})).AssertStatus(t, http.StatusCreated)

	signups, err := tr.RecentSignups(ctx, 7, 0)
	if err != nil {
		t.Fatalf("RecentSignups() error = %v", err)
	}
	if len(signups) != 1 {
		t.Fatalf("RecentSignups() count = %d, want 1", len(signups))
	}
	s := signups[0]
	if s.FullName != "Ann Lee" {
		t.Errorf("FullName = %q, want %q", s.FullName, "Ann Lee")
	}
	if s.DeviceType != useragent.Desktop || s.Browser != "Chrome" || s.OS != "Windows" {
		t.Errorf("device = %s/%s/%s, want Desktop/Chrome/Windows", s.DeviceType, s.Browser, s.OS)
	}
	if s.ReferralSource != "newsletter" {
		t.Errorf("ReferralSource = %q", s.ReferralSource)
	}
}

func TestRecordActivity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router, tr := setup(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	serve(router, testutil.NewAdminRequest(http.MethodPost, "/activities", map[string]any{
		"user_id":       5,
		"email":         "doc@example.com",
		"activity_type": "prediction",
		"description":   "Uploaded scan",
		"metadata":      map[string]any{"prediction_id": 17, "label": "benign"},
	})).AssertStatus(t, http.StatusCreated)

	events, err := tr.UserActivity(ctx, 5, 0)
	if err != nil {
		t.Fatalf("UserActivity() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("UserActivity() count = %d, want 1", len(events))
	}
	md := events[0].Metadata
	if md["label"] != "benign" || md["prediction_id"] != 17 {
		t.Errorf("Metadata = %v", md)
	}
	if events[0].Description != "Uploaded scan" {
		t.Errorf("Description = %q", events[0].Description)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router, tr := setup(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// No token in the body: one is minted
	rec := serve(router, testutil.NewAdminRequest(http.MethodPost, "/sessions", map[string]any{
		"user_id": 7,
		"email":   "u@example.com",
	}))
	rec.AssertStatus(t, http.StatusCreated)

	var opened struct {
		ID           string `json:"id"`
		SessionToken string `json:"session_token"`
	}
	rec.DecodeJSON(t, &opened)
	if _, err := uuid.Parse(opened.SessionToken); err != nil {
		t.Fatalf("minted token %q is not a uuid: %v", opened.SessionToken, err)
	}

	// Reusing the token is dropped, not overwritten
	rec = serve(router, testutil.NewAdminRequest(http.MethodPost, "/sessions", map[string]any{
		"user_id":       8,
		"email":         "other@example.com",
		"session_token": opened.SessionToken,
	}))
	rec.AssertStatus(t, http.StatusAccepted)
	rec.AssertContains(t, `"recorded":false`)

	s, err := tr.ActiveSession(ctx, opened.SessionToken)
	if err != nil {
		t.Fatalf("ActiveSession() error = %v", err)
	}
	if s.UserID != 7 {
		t.Errorf("UserID = %d, want 7", s.UserID)
	}

	serve(router, testutil.NewAdminRequest(http.MethodPost, "/sessions/"+opened.SessionToken+"/touch", nil)).
		AssertStatus(t, http.StatusNoContent)
	serve(router, testutil.NewAdminRequest(http.MethodPost, "/sessions/"+opened.SessionToken+"/close", nil)).
		AssertStatus(t, http.StatusNoContent)
	serve(router, testutil.NewAdminRequest(http.MethodPost, "/sessions/"+opened.SessionToken+"/close", nil)).
		AssertStatus(t, http.StatusNoContent)

	if _, err := tr.ActiveSession(ctx, opened.SessionToken); !errors.Is(err, tracking.ErrNoActiveSession) {
		t.Errorf("ActiveSession() after close error = %v, want ErrNoActiveSession", err)
	}

	// Unknown tokens are not errors
	serve(router, testutil.NewAdminRequest(http.MethodPost, "/sessions/unknown/touch", nil)).
		AssertStatus(t, http.StatusNoContent)
}

func TestIngest_StoreUnavailable(t *testing.T) {
	router, _ := setup(t, testutil.UnreachableDB(t))

	rec := serve(router, testutil.NewAdminRequest(http.MethodPost, "/logins", map[string]any{
		"user_id": 1,
		"email":   "a@b.co",
	}))
	rec.AssertStatus(t, http.StatusAccepted)
	rec.AssertContains(t, `"recorded":false`)

	rec = serve(router, testutil.NewAdminRequest(http.MethodPost, "/sessions", map[string]any{
		"user_id":       1,
		"email":         "a@b.co",
		"session_token": "tok-1",
	}))
	rec.AssertStatus(t, http.StatusAccepted)
	rec.AssertContains(t, `"session_token":"tok-1"`)

	serve(router, testutil.NewAdminRequest(http.MethodPost, "/sessions/tok-1/close", nil)).
		AssertStatus(t, http.StatusAccepted)
}
