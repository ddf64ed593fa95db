package server

import (
	"net/http"
	"strings"
)

// SecurityConfig controls the HTTP hardening applied to every endpoint.
type SecurityConfig struct {
	// EnableCORS enables cross-origin response headers.
	EnableCORS bool
	// AllowedOrigins lists origins allowed to read responses. A single "*"
	// entry allows any origin.
	AllowedOrigins []string
	// AllowedMethods lists methods advertised in CORS responses.
	AllowedMethods []string
	// MaxHistorySeconds bounds the seconds parameter accepted by the
	// history endpoint, so a client cannot request an arbitrarily large
	// response.
	MaxHistorySeconds int
}

// DefaultSecurityConfig returns the default hardening settings: permissive
// CORS for the read-only API and a one-hour ceiling on history requests.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:        true,
		AllowedOrigins:    []string{"*"},
		AllowedMethods:    []string{"GET", "OPTIONS"},
		MaxHistorySeconds: 3600,
	}
}

// SecurityMiddleware wraps next with security response headers, CORS
// handling, and OPTIONS preflight short-circuiting.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)

		if config.EnableCORS {
			setCORSHeaders(w, r, config)
		}

		// Preflight requests are answered here and never reach the API.
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// setSecurityHeaders applies standard hardening headers to the response.
func setSecurityHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
}

// setCORSHeaders applies cross-origin headers when the request origin is
// allowed. A wildcard entry matches even requests without an Origin header.
func setCORSHeaders(w http.ResponseWriter, r *http.Request, config SecurityConfig) {
	origin := r.Header.Get("Origin")

	allowed := ""
	for _, o := range config.AllowedOrigins {
		if o == "*" {
			allowed = "*"
			break
		}
		if o == origin && origin != "" {
			allowed = origin
			break
		}
	}
	if allowed == "" {
		return
	}

	h := w.Header()
	h.Set("Access-Control-Allow-Origin", allowed)
	h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
	h.Set("Access-Control-Allow-Headers", "Content-Type, Accept")
	h.Set("Access-Control-Max-Age", "86400")
}
