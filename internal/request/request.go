package request

import (
	"net/http"
	"strings"
)

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if first := strings.TrimSpace(parts[0]); first != "" {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// CategoryParam returns the category query parameter, defaulting to the "All" filter.
func CategoryParam(r *http.Request, all string) string {
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
		return c
	}
	return all
}
