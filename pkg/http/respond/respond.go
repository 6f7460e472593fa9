package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the JSON error shape returned by every endpoint.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON writes payload as a JSON response with the given status code.
func JSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Error marshaling response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"internal server error"}`))

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// Error writes a JSON error response with the given status code.
func Error(w http.ResponseWriter, code int, message string) {
	JSON(w, code, errorResponse{Success: false, Message: message})
}
