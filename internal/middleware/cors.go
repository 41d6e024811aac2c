// Package middleware provides reusable HTTP middleware for the Trails API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// AdminTokenHeader carries the shared secret for destructive batch operations.
const AdminTokenHeader = "X-Admin-Token"

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// The admin token header is allowed so a browser console can issue batch deletes.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", AdminTokenHeader},
		ExposedHeaders: []string{"Content-Disposition"},
	})
	return c.Handler
}
