package middleware

import (
	"crypto/subtle"
	"net/http"
)

// RequireAdminToken gates a route behind the shared admin secret sent in the
// X-Admin-Token header. Mismatches are answered with 403 and the wrapped
// handler never runs. An empty secret denies every request.
func RequireAdminToken(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminTokenHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				writeDetail(w, http.StatusForbidden, "Not authorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
