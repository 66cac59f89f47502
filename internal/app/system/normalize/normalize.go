// Package normalize provides helper functions for consistent string normalization
// at the API boundary. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls so stored values and lookups agree.
package normalize

import "strings"

// Email normalizes an email address by trimming whitespace and converting to lowercase.
// Ingest and the failed-login lookup both apply it, so attempts recorded as
// "User@Example.com" are found by "user@example.com".
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Label normalizes a free-form tag such as activity_type or referral_source
// by trimming whitespace. Case is preserved.
func Label(s string) string {
	return strings.TrimSpace(s)
}
