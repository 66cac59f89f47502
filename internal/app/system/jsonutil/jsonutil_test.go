package jsonutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriters(t *testing.T) {
	tests := []struct {
		name       string
		write      func(http.ResponseWriter)
		wantStatus int
		wantBody   string
	}{
		{"ok", func(w http.ResponseWriter) { OK(w, map[string]int{"total_logins": 3}) }, http.StatusOK, `{"total_logins":3}`},
		{"created", func(w http.ResponseWriter) { Created(w, map[string]string{"id": "abc"}) }, http.StatusCreated, `{"id":"abc"}`},
		{"accepted", func(w http.ResponseWriter) { Accepted(w, map[string]bool{"recorded": false}) }, http.StatusAccepted, `{"recorded":false}`},
		{"nil body", func(w http.ResponseWriter) { JSON(w, http.StatusOK, nil) }, http.StatusOK, ""},
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "limit must be an integer") }, http.StatusBadRequest, `{"error":"limit must be an integer"}`},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "missing bearer token") }, http.StatusUnauthorized, `{"error":"missing bearer token"}`},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "internal error") }, http.StatusInternalServerError, `{"error":"internal error"}`},
		{"unavailable", func(w http.ResponseWriter) { ServiceUnavailable(w, "tracking store unavailable") }, http.StatusServiceUnavailable, `{"error":"tracking store unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", got)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
		})
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"email": "a valid email address is required"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Error != "validation failed" || body.Fields["email"] == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestDecode(t *testing.T) {
	type input struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid JSON", `{"name":"test","value":123}`, ""},
		{"invalid JSON", `{invalid}`, "invalid JSON body"},
		{"empty body", "", "request body is empty"},
		{"unknown field", `{"name":"x","extra":1}`, "invalid JSON body"},
		{"trailing object", `{"name":"a"}{"name":"b"}`, "single JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var got input
			err := Decode(rec, req, &got)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				if got.Name != "test" || got.Value != 123 {
					t.Errorf("Decode() = %+v", got)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Decode() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`{"name":"`)
	buf.WriteString(strings.Repeat("a", MaxBodyBytes))
	buf.WriteString(`"}`)

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	rec := httptest.NewRecorder()

	var got map[string]any
	err := Decode(rec, req, &got)
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("Decode() error = %v, want size error", err)
	}
}

