// Package htmlsanitize strips markup from free-text fields before they are
// stored. Tracking records hold plain text only; any HTML a caller forwards
// (a pasted description, a display name) is reduced to its text content.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy removes every element and attribute.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// PlainText returns s with all markup removed and surrounding space trimmed.
// Entities escaped by the policy are decoded again so stored text reads the
// way the user typed it ("Tom & Jerry", not "Tom &amp; Jerry").
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(getPolicy().Sanitize(s)))
}

// IsPlainText checks if content appears to be plain text (no HTML tags).
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	// Valid HTML tags require both characters
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}
