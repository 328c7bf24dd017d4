package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vaishnavid04/Everwear/internal/domain"
	"github.com/vaishnavid04/Everwear/internal/repository"
)

// CartOperations is the slice of the cart service the handler calls;
// tests swap in a fake.
type CartOperations interface {
	GetCart(ctx context.Context, ownerID string) (*domain.Cart, error)
	AddLine(ctx context.Context, ownerID string, line domain.CartLine) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, ownerID string, productID int64, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, ownerID string, productID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context, ownerID string) error
}

type CartHandler struct {
	carts   CartOperations
	timeout time.Duration
}

func NewCartHandler(carts CartOperations, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

// AddLineRequestDTO carries the full line snapshot; quantity arrives as
// a float so fractional or missing values can be coerced rather than
// rejected.
type AddLineRequestDTO struct {
	ProductID     int64    `json:"productId"`
	Name          string   `json:"name"`
	UnitPrice     float64  `json:"unitPrice"`
	Quantity      *float64 `json:"quantity"`
	ImageURL      string   `json:"imageUrl"`
	SelectedColor string   `json:"selectedColor"`
	SelectedSize  string   `json:"selectedSize"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, err := h.carts.GetCart(ctx, ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.UnitPrice < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "unit_price must not be negative")
		return
	}

	quantity := 1.0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	line := domain.CartLine{
		ProductID:     req.ProductID,
		Name:          req.Name,
		UnitPrice:     req.UnitPrice,
		Quantity:      domain.CoerceQuantity(quantity),
		ImageURL:      req.ImageURL,
		SelectedColor: req.SelectedColor,
		SelectedSize:  req.SelectedSize,
		AddedAt:       time.Now(),
	}

	cart, err := h.carts.AddLine(ctx, ownerID, line)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add line")
		return
	}

	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID, ok := productIDFromURL(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// quantity <= 0 removes the line; that is a valid request here
	cart, err := h.carts.UpdateQuantity(ctx, ownerID, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrLineNotFound) || errors.Is(err, repository.ErrCartNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "cart line not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update quantity")
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID, ok := productIDFromURL(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.RemoveLine(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrLineNotFound) || errors.Is(err, repository.ErrCartNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "cart line not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove line")
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.carts.ClearCart(ctx, ownerID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func productIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
