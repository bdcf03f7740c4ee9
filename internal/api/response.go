package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/everyonewrite/writeguide/internal/assistant"
	"github.com/everyonewrite/writeguide/internal/llm"
	"github.com/everyonewrite/writeguide/internal/order"
	"github.com/everyonewrite/writeguide/internal/prompt"
	"github.com/everyonewrite/writeguide/internal/translate"
	"github.com/everyonewrite/writeguide/internal/user"
	"github.com/everyonewrite/writeguide/internal/utools"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// writeMappedError translates component failures into the stable error
// payload. Upstream provider failures surface a generic message with the
// diagnostic in details; provider internals never reach the client raw.
func writeMappedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assistant.ErrValidation),
		errors.Is(err, prompt.ErrMissingInput),
		errors.Is(err, order.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, llm.ErrUnsupportedModel):
		writeError(w, http.StatusBadRequest, "unsupported model choice", "")
	case errors.Is(err, user.ErrInsufficientBalance):
		writeError(w, http.StatusPaymentRequired, "insufficient token balance", "")
	case errors.Is(err, order.ErrPaymentNotConfirmed):
		writeError(w, http.StatusBadRequest, "payment not confirmed", "")
	case errors.Is(err, order.ErrNotFound), errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, translate.ErrTranslation):
		writeError(w, http.StatusInternalServerError, "translation provider failed", err.Error())
	case errors.Is(err, llm.ErrModel):
		writeError(w, http.StatusInternalServerError, "model provider failed", err.Error())
	case errors.Is(err, utools.ErrGateway):
		writeError(w, http.StatusInternalServerError, "plugin platform request failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
