package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/everyonewrite/writeguide/internal/assistant"
	"github.com/everyonewrite/writeguide/internal/auth"
	"github.com/everyonewrite/writeguide/internal/models"
)

// GuidanceService is the orchestrator surface the HTTP layer consumes.
type GuidanceService interface {
	Guide(ctx context.Context, usr *models.User, req assistant.Request) (*assistant.Result, error)
	History(ctx context.Context, userID int64) ([]*models.WritingTask, error)
}

type AssistantHandler struct {
	svc   GuidanceService
	users UserStore
}

func NewAssistantHandler(svc GuidanceService, users UserStore) *AssistantHandler {
	return &AssistantHandler{svc: svc, users: users}
}

// Guidance runs the writing-assistance pipeline and forwards the raw
// provider completion body on success.
func (h *AssistantHandler) Guidance(w http.ResponseWriter, r *http.Request) {
	usr, ok := auth.GetUserFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req assistant.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	res, err := h.svc.Guide(r.Context(), usr, req)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Completion.Raw); err != nil {
		return
	}
}

func (h *AssistantHandler) Balance(w http.ResponseWriter, r *http.Request) {
	usr, ok := auth.GetUserFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	balance, err := h.users.GetBalance(r.Context(), usr.ID)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}

func (h *AssistantHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	usr, ok := auth.GetUserFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	tasks, err := h.svc.History(r.Context(), usr.ID)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*models.WritingTask{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}
