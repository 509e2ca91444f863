// Package handlers implements the HTTP API handlers.
package handlers

import (
	"encoding/json"
	"net/http"
)

// All API responses carry a {"success": bool} envelope so clients can
// branch without inspecting HTTP status codes.

func respondJSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
	payload["success"] = status < http.StatusBadRequest
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondData(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{"error": message})
}
