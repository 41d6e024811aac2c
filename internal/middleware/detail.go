package middleware

import (
	"encoding/json"
	"net/http"
)

// writeDetail answers with the API's {"detail": ...} error body. Middleware
// sits below the handler package, so it keeps its own copy of the shape.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
