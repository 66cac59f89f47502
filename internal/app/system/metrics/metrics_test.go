package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStore(t *testing.T) {
	before := promtest.CollectAndCount(StoreDuration)

	var err error
	ObserveStore("test_ok", time.Now(), &err)
	err = errors.New("boom")
	ObserveStore("test_err", time.Now(), &err)

	if got := promtest.CollectAndCount(StoreDuration); got != before+2 {
		t.Errorf("series count = %d, want %d", got, before+2)
	}
}

func TestWriteFailures(t *testing.T) {
	c := WriteFailures.WithLabelValues("test_write")
	before := promtest.ToFloat64(c)
	c.Inc()
	if got := promtest.ToFloat64(c); got != before+1 {
		t.Errorf("WriteFailures = %v, want %v", got, before+1)
	}
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := RequestCounter.WithLabelValues(http.MethodGet, "/users/{id}", "418")
	before := promtest.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}
	if got := promtest.ToFloat64(counter); got != before+1 {
		t.Errorf("RequestCounter = %v, want %v", got, before+1)
	}
}

func TestHandler(t *testing.T) {
	WriteFailures.WithLabelValues("exposed").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "stratatrack_tracking_write_failures_total") {
		t.Error("metrics output should include the write failure counter")
	}
}
