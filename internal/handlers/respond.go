package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON encodes v as the response body with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("Failed to encode response", "error", err)
	}
}

// writeError writes a JSON error body with the given status
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parseOrdering splits a Django-style ordering parameter ("-points" for
// descending) into a column name and direction
func parseOrdering(param string) (orderBy string, asc bool) {
	if param == "" {
		return "", false
	}
	if param[0] == '-' {
		return param[1:], false
	}
	return param, true
}
