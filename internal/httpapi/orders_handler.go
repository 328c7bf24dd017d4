package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vaishnavid04/Everwear/internal/domain"
	"github.com/vaishnavid04/Everwear/internal/orders"
	"github.com/vaishnavid04/Everwear/internal/service"
)

type CheckoutOperations interface {
	PlaceOrder(ctx context.Context, ownerID string, items []domain.OrderItem, total float64) (*domain.Order, error)
}

type OrderReader interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
}

type OrdersHandler struct {
	checkout CheckoutOperations
	orders   OrderReader
	timeout  time.Duration
}

func NewOrdersHandler(checkout CheckoutOperations, repo OrderReader, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{checkout: checkout, orders: repo, timeout: timeout}
}

type PlaceOrderRequestDTO struct {
	Items []domain.OrderItem `json:"items"`
	Total float64            `json:"total"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.checkout.PlaceOrder(ctx, ownerID, req.Items, req.Total)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart", "cannot place an order with no items")
		case errors.Is(err, service.ErrMissingProduct):
			respondError(w, http.StatusBadRequest, "missing_product", "every item needs a product identity")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to place order")
		}
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	list, err := h.orders.ListOrdersByOwner(ctx, ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}

	if list == nil {
		list = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	id, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}

	// owners only see their own orders
	if order.OwnerID != ownerID {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus moves an order along pending -> shipped -> delivered.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.IsValid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "status must be pending, shipped or delivered")
		return
	}

	order, err := h.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "not_found", "order not found")
		case errors.Is(err, orders.ErrInvalidTransition):
			respondError(w, http.StatusConflict, "invalid_transition", "order status can only move forward")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to update order status")
		}
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func orderIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
