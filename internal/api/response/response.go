package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes a flat JSON document. Handlers own the full body shape
// because the public wire contract (flat `{success, ...}` documents)
// predates this service.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, body any) {
	JSON(w, http.StatusOK, body)
}

// Fail writes the standard failure document.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
