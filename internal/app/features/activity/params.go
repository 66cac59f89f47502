package activity

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/stratatrack/internal/app/system/inputval"
	"github.com/dalemusser/stratatrack/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatrack/internal/app/system/normalize"
	"github.com/dalemusser/stratatrack/internal/app/system/tracking"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// queryInt reads an integer query parameter, returning def when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

// queryLimit reads "limit", which must fall in 1..MaxLimit.
func queryLimit(r *http.Request, def int64) (int64, error) {
	n, err := queryInt(r, "limit", int(def))
	if err != nil {
		return 0, err
	}
	if n < 1 || n > MaxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	return int64(n), nil
}

func pathUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("user_id must be a positive integer")
	}
	return id, nil
}

func pathEmail(r *http.Request) (string, error) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil || !inputval.IsValidEmail(email) {
		return "", errors.New("a valid email address is required")
	}
	return normalize.Email(email), nil
}

// storeError writes the response for a failed tracking read.
func (h *Handler) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, tracking.ErrUnavailable) {
		h.Log.Error("tracking read failed", zap.String("operation", op), zap.Error(err))
		jsonutil.ServiceUnavailable(w, "activity data is temporarily unavailable")
		return
	}
	h.Log.Error("unexpected tracking error", zap.String("operation", op), zap.Error(err))
	jsonutil.InternalError(w, "internal error")
}
