package loginstore

import (
	"testing"
	"time"

	"github.com/dalemusser/stratatrack/internal/domain/models"
	"github.com/dalemusser/stratatrack/internal/testutil"
)

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	if store == nil {
		t.Fatal("New() returned nil")
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}

	// Should be idempotent
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() second call error = %v", err)
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := store.Create(ctx, models.LoginEvent{
		UserID:     7,
		Email:      "doctor@clinic.kz",
		IPAddress:  "192.168.1.1",
		UserAgent:  "Mozilla/5.0",
		DeviceType: "Desktop",
		Success:    true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id.IsZero() {
		t.Fatal("Create() returned zero id")
	}

	records, err := store.GetByUser(ctx, 7, 10)
	if err != nil {
		t.Fatalf("GetByUser() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	created := records[0]
	if created.ID != id {
		t.Errorf("ID = %v, want %v", created.ID, id)
	}
	if created.Email != "doctor@clinic.kz" {
		t.Errorf("Email = %v, want doctor@clinic.kz", created.Email)
	}
	if created.DeviceType != "Desktop" {
		t.Errorf("DeviceType = %v, want Desktop", created.DeviceType)
	}
	if !created.Success {
		t.Error("Success should be true")
	}
	if created.LoginTime.IsZero() {
		t.Error("LoginTime should be auto-set when zero")
	}
}

func TestStore_Create_WithTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	specificTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if _, err := store.Create(ctx, models.LoginEvent{UserID: 1, Email: "a@b.c", LoginTime: specificTime}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	records, _ := store.GetByUser(ctx, 1, 10)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if !records[0].LoginTime.Equal(specificTime) {
		t.Errorf("LoginTime = %v, want %v", records[0].LoginTime, specificTime)
	}
}

func TestStore_GetByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		store.Create(ctx, models.LoginEvent{
			UserID:    1,
			Email:     "a@b.c",
			LoginTime: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	store.Create(ctx, models.LoginEvent{UserID: 2, Email: "other@b.c"})

	records, err := store.GetByUser(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetByUser() error = %v", err)
	}
	if len(records) != 5 {
		t.Errorf("GetByUser() count = %d, want 5", len(records))
	}

	// Should be sorted by login_time descending (most recent first)
	for i := 1; i < len(records); i++ {
		if records[i].LoginTime.After(records[i-1].LoginTime) {
			t.Error("Records should be sorted by login_time descending")
		}
	}

	records, _ = store.GetByUser(ctx, 1, 3)
	if len(records) != 3 {
		t.Errorf("GetByUser(limit=3) count = %d, want 3", len(records))
	}

	records, _ = store.GetByUser(ctx, 1, 0)
	if len(records) != 5 {
		t.Errorf("GetByUser(limit=0) count = %d, want 5", len(records))
	}
}

func TestStore_GetByUser_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	records, err := store.GetByUser(ctx, 404, 10)
	if err != nil {
		t.Fatalf("GetByUser() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("GetByUser() for unknown user = %v, want empty slice", records)
	}
}

func TestStore_LastLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	last, err := store.LastLogin(ctx, 1)
	if err != nil {
		t.Fatalf("LastLogin() error = %v", err)
	}
	if last != nil {
		t.Errorf("LastLogin() = %v, want nil", last)
	}

	newest := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)
	store.Create(ctx, models.LoginEvent{UserID: 1, Email: "a@b.c", LoginTime: newest.Add(-48 * time.Hour)})
	store.Create(ctx, models.LoginEvent{UserID: 1, Email: "a@b.c", LoginTime: newest})

	last, err = store.LastLogin(ctx, 1)
	if err != nil {
		t.Fatalf("LastLogin() error = %v", err)
	}
	if last == nil || !last.Equal(newest) {
		t.Errorf("LastLogin() = %v, want %v", last, newest)
	}

	n, _ := store.CountByUser(ctx, 1)
	if n != 2 {
		t.Errorf("CountByUser() = %d, want 2", n)
	}
}

func TestStore_WindowAggregates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	store.Create(ctx, models.LoginEvent{UserID: 1, Email: "a@b.c", LoginTime: now.Add(-1 * day)})
	store.Create(ctx, models.LoginEvent{UserID: 1, Email: "a@b.c", LoginTime: now.Add(-1*day - time.Hour)})
	store.Create(ctx, models.LoginEvent{UserID: 2, Email: "b@b.c", LoginTime: now.Add(-10 * day)})
	store.Create(ctx, models.LoginEvent{UserID: 3, Email: "c@b.c", LoginTime: now.Add(-40 * day)})

	since := now.Add(-30 * day)

	total, err := store.CountSince(ctx, since)
	if err != nil {
		t.Fatalf("CountSince() error = %v", err)
	}
	if total != 3 {
		t.Errorf("CountSince() = %d, want 3", total)
	}

	users, err := store.CountUsersSince(ctx, since)
	if err != nil {
		t.Fatalf("CountUsersSince() error = %v", err)
	}
	if users != 2 {
		t.Errorf("CountUsersSince() = %d, want 2", users)
	}

	days, err := store.DailyCountsSince(ctx, since)
	if err != nil {
		t.Fatalf("DailyCountsSince() error = %v", err)
	}
	want := []models.DailyCount{
		{Date: "2025-06-29", Count: 2},
		{Date: "2025-06-20", Count: 1},
	}
	if len(days) != len(want) {
		t.Fatalf("DailyCountsSince() = %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("DailyCountsSince()[%d] = %v, want %v", i, days[i], want[i])
		}
	}
}
