package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/stratatrack/internal/app/system/metrics"
	"github.com/dalemusser/stratatrack/internal/domain/models"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// failingWriter fails every call with err.
type failingWriter struct{ err error }

func (f failingWriter) RecordLogin(context.Context, int64, string, string, string, models.Device) (string, error) {
	return "", f.err
}
func (f failingWriter) RecordFailedLogin(context.Context, string, string, string, string) (string, error) {
	return "", f.err
}
func (f failingWriter) RecordSignup(context.Context, int64, string, string, string, string, models.Device, string) (string, error) {
	return "", f.err
}
func (f failingWriter) RecordActivity(context.Context, int64, string, string, string, string, models.Metadata) (string, error) {
	return "", f.err
}
func (f failingWriter) OpenSession(context.Context, int64, string, string, string) (string, error) {
	return "", f.err
}
func (f failingWriter) TouchSession(context.Context, string) error { return f.err }
func (f failingWriter) CloseSession(context.Context, string) error { return f.err }

func TestRecorder_LogsAndContinues(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	boom := errors.New("connection refused")
	r := NewRecorder(failingWriter{err: unavailable("test", boom)}, zap.New(core))
	ctx := context.Background()

	before := promtest.ToFloat64(metrics.WriteFailures.WithLabelValues("record_login"))

	if id, ok := r.Login(ctx, 7, "u@b.c", "", "", models.Device{}); ok || id != "" {
		t.Errorf("Login() = %q, %v; want \"\", false", id, ok)
	}
	if _, ok := r.FailedLogin(ctx, "u@b.c", "", "", ""); ok {
		t.Error("FailedLogin() ok = true")
	}
	if _, ok := r.Signup(ctx, 7, "u@b.c", "", "", "", models.Device{}, ""); ok {
		t.Error("Signup() ok = true")
	}
	if _, ok := r.Activity(ctx, 7, "u@b.c", "view", "", "", nil); ok {
		t.Error("Activity() ok = true")
	}
	if _, ok := r.OpenSession(ctx, 7, "u@b.c", "abc", ""); ok {
		t.Error("OpenSession() ok = true")
	}
	if r.TouchSession(ctx, "abc") {
		t.Error("TouchSession() = true")
	}
	if r.CloseSession(ctx, "abc") {
		t.Error("CloseSession() = true")
	}

	if logs.Len() != 7 {
		t.Fatalf("logged %d warnings, want 7", logs.Len())
	}
	first := logs.All()[0]
	if first.ContextMap()["operation"] != "record_login" {
		t.Errorf("operation field = %v", first.ContextMap()["operation"])
	}

	after := promtest.ToFloat64(metrics.WriteFailures.WithLabelValues("record_login"))
	if after != before+1 {
		t.Errorf("write failures = %v, want %v", after, before+1)
	}
}

func TestRecorder_Success(t *testing.T) {
	tr, _, ctx := setupTracker(t)
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewRecorder(tr, zap.New(core))

	id, ok := r.Login(ctx, 7, "u@b.c", "", "", models.Device{})
	if !ok || id == "" {
		t.Fatalf("Login() = %q, %v; want id, true", id, ok)
	}
	if _, ok := r.OpenSession(ctx, 7, "u@b.c", "abc", ""); !ok {
		t.Fatal("OpenSession() ok = false")
	}
	// Collision is swallowed like any other failure
	if _, ok := r.OpenSession(ctx, 8, "v@b.c", "abc", ""); ok {
		t.Error("OpenSession() on a used token ok = true")
	}
	if logs.Len() != 1 {
		t.Errorf("logged %d warnings, want 1", logs.Len())
	}
}
