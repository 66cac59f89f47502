package tracking

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable wraps every storage failure. Callers test with errors.Is.
	ErrUnavailable = errors.New("tracking store unavailable")

	// ErrTokenInUse is returned by OpenSession when the token is already
	// stored. An existing session is never overwritten.
	ErrTokenInUse = errors.New("session token already in use")

	// ErrInvalidMetadata is returned by RecordActivity when the metadata
	// cannot be encoded as JSON, for example a NaN or infinite number.
	ErrInvalidMetadata = errors.New("activity metadata is not encodable")

	// ErrNoActiveSession is returned by ActiveSession when no active session
	// carries the token.
	ErrNoActiveSession = errors.New("no active session for token")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
