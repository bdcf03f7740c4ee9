package auth

import (
	"encoding/json"
	"log"
	"net/http"
)

type AuthError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(AuthError{Error: message}); err != nil {
		log.Printf("Failed to write JSON error: %v", err)
	}
}
