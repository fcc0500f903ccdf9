package driver

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// errorResponse represents a JSON error response.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// allowRead reports whether the method may reach a dispatcher. Portal
// clients use GET; some firmwares POST the same parameters as a form.
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// formatRating renders a rating the way portals do: one decimal, as a string.
func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// unixString renders a Unix timestamp as a decimal string.
func unixString(sec int64) string {
	return strconv.FormatInt(sec, 10)
}
