package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// OrderService is the subset of facade operations the order endpoints use.
type OrderService interface {
	OrdersForUser(ctx context.Context, userID int64) ([]*domain.OrderView, error)
	BuyVinyl(ctx context.Context, userID, vinylID int64, amount int) (int64, error)
}

type OrderHandler struct {
	service OrderService
	logger  logger.Logger
}

func NewOrderHandler(service OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type buyVinylRequest struct {
	UserID  int64 `json:"user_id"`
	VinylID int64 `json:"vinyl_id"`
	Amount  int   `json:"amount"`
}

func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/orders.list", h.handleList)
	mux.HandleFunc("/api/orders.create", h.handleCreate)
}

func (h *OrderHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		WriteJSONError(w, "Missing or invalid user ID", http.StatusBadRequest)
		return
	}

	orders, err := h.service.OrdersForUser(r.Context(), userID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list orders")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

func (h *OrderHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req buyVinylRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 || req.VinylID <= 0 {
		WriteJSONError(w, "Missing user or vinyl ID", http.StatusBadRequest)
		return
	}

	orderID, err := h.service.BuyVinyl(r.Context(), req.UserID, req.VinylID, req.Amount)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"user_id":  req.UserID,
			"vinyl_id": req.VinylID,
			"error":    err.Error(),
		}).Error("Failed to place order")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"order_id": orderID,
	})
}
