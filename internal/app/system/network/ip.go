// Package network provides network-related utilities.
package network

import (
	"net"
	"net/http"
	"strings"
)

// ForwardedIP returns the end-user address a proxy or the calling backend
// forwarded in X-Forwarded-For (first hop) or X-Real-IP. It returns "" when
// neither header is set.
func ForwardedIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	return strings.TrimSpace(r.Header.Get("X-Real-IP"))
}

// GetClientIP extracts the client IP address from the request.
// It prefers the forwarding headers and falls back to RemoteAddr without
// its port.
func GetClientIP(r *http.Request) string {
	if ip := ForwardedIP(r); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
