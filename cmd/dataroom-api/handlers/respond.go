// Package handlers provides HTTP handlers for the dataroom API.
package handlers

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": message, "detail": detail}. detail defaults to
// message so clients can always read it.
func writeError(w http.ResponseWriter, status int, message, detail string) {
	if detail == "" {
		detail = message
	}
	writeJSON(w, status, map[string]string{
		"error":  message,
		"detail": detail,
	})
}
