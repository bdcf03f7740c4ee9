package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/everyonewrite/writeguide/internal/auth"
	"github.com/everyonewrite/writeguide/internal/models"
	"github.com/google/uuid"
)

// OrderService is the order surface the HTTP layer consumes.
type OrderService interface {
	CreatePending(ctx context.Context, usr *models.User, body string, amount float64) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	Confirm(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	usr, ok := auth.GetUserFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	orders, err := h.svc.ListByUser(r.Context(), usr.ID)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

type createOrderRequest struct {
	Body   string  `json:"body"`
	Amount float64 `json:"amount"`
}

type createOrderResponse struct {
	Message string    `json:"message"`
	OrderID uuid.UUID `json:"order_id"`
	Amount  float64   `json:"amount"`
	PayFee  int       `json:"pay_fee"`
	GoodsID string    `json:"goods_id"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	usr, ok := auth.GetUserFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.Body == "" {
		writeError(w, http.StatusBadRequest, "body is required", "")
		return
	}

	ord, err := h.svc.CreatePending(r.Context(), usr, req.Body, req.Amount)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createOrderResponse{
		Message: "Order created",
		OrderID: ord.OrderID,
		Amount:  ord.Amount,
		PayFee:  ord.PayFee,
		GoodsID: ord.GoodsID,
	})
}

type confirmOrderRequest struct {
	OrderID string `json:"order_id"`
}

func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.GetUserFromRequest(r); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req confirmOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order_id", "")
		return
	}

	if _, err := h.svc.Confirm(r.Context(), orderID); err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment confirmed"})
}
