package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaishnavid04/Everwear/internal/domain"
	"github.com/vaishnavid04/Everwear/internal/orders"
	"github.com/vaishnavid04/Everwear/internal/service"
)

type checkoutMock struct {
	order *domain.Order
	err   error
}

func (m *checkoutMock) PlaceOrder(_ context.Context, ownerID string, items []domain.OrderItem, total float64) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

type orderRepoMock struct {
	orders map[uuid.UUID]*domain.Order
	err    error
}

func (m *orderRepoMock) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return order, nil
}

func (m *orderRepoMock) ListOrdersByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Order
	for _, o := range m.orders {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *orderRepoMock) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, orders.ErrInvalidTransition
	}
	order.Status = status
	return order, nil
}

func pendingOrder(owner string) *domain.Order {
	return &domain.Order{
		ID:      uuid.New(),
		OwnerID: owner,
		Total:   70.0,
		Status:  domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{ProductID: 1, Name: "Essential Tee", Quantity: 2, UnitPrice: 30.0},
		},
		CreatedAt: time.Now(),
	}
}

func newOrdersRouter(handler *OrdersHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/orders", handler.PlaceOrder)
	r.Get("/orders", handler.ListOrders)
	r.Get("/orders/{id}", handler.GetOrder)
	r.Patch("/orders/{id}/status", handler.UpdateStatus)
	return r
}

func TestOrdersHandler_PlaceOrder(t *testing.T) {
	order := pendingOrder("owner-1")
	handler := NewOrdersHandler(&checkoutMock{order: order}, &orderRepoMock{}, 5*time.Second)

	body := `{"items":[{"productId":1,"name":"Essential Tee","quantity":2,"unitPrice":30}],"total":70}`
	recorder := httptest.NewRecorder()
	request := withOwner(httptest.NewRequest("POST", "/orders", bytes.NewBufferString(body)), "owner-1")
	newOrdersRouter(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	var resp domain.Order
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, order.ID, resp.ID)
	assert.Equal(t, domain.OrderStatusPending, resp.Status)
}

func TestOrdersHandler_PlaceOrder_EmptyCart(t *testing.T) {
	handler := NewOrdersHandler(&checkoutMock{err: service.ErrEmptyCart}, &orderRepoMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withOwner(httptest.NewRequest("POST", "/orders", bytes.NewBufferString(`{"items":[]}`)), "owner-1")
	newOrdersRouter(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "empty_cart", resp.Code)
}

func TestOrdersHandler_PlaceOrder_Unauthorized(t *testing.T) {
	handler := NewOrdersHandler(&checkoutMock{}, &orderRepoMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/orders", bytes.NewBufferString(`{}`))
	newOrdersRouter(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestOrdersHandler_ListOrders(t *testing.T) {
	order := pendingOrder("owner-1")
	repo := &orderRepoMock{orders: map[uuid.UUID]*domain.Order{order.ID: order}}
	handler := NewOrdersHandler(&checkoutMock{}, repo, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withOwner(httptest.NewRequest("GET", "/orders", nil), "owner-1")
	newOrdersRouter(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp []domain.Order
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp, 1)
}

func TestOrdersHandler_ListOrders_EmptyIsArray(t *testing.T) {
	handler := NewOrdersHandler(&checkoutMock{}, &orderRepoMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withOwner(httptest.NewRequest("GET", "/orders", nil), "owner-1")
	newOrdersRouter(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "[]\n", recorder.Body.String())
}

func TestOrdersHandler_GetOrder_OtherOwnerHidden(t *testing.T) {
	order := pendingOrder("someone-else")
	repo := &orderRepoMock{orders: map[uuid.UUID]*domain.Order{order.ID: order}}
	handler := NewOrdersHandler(&checkoutMock{}, repo, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withOwner(httptest.NewRequest("GET", "/orders/"+order.ID.String(), nil), "owner-1")
	newOrdersRouter(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestOrdersHandler_UpdateStatus_Forward(t *testing.T) {
	order := pendingOrder("owner-1")
	repo := &orderRepoMock{orders: map[uuid.UUID]*domain.Order{order.ID: order}}
	handler := NewOrdersHandler(&checkoutMock{}, repo, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withOwner(httptest.NewRequest("PATCH", "/orders/"+order.ID.String()+"/status",
		bytes.NewBufferString(`{"status":"shipped"}`)), "owner-1")
	newOrdersRouter(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp domain.Order
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, domain.OrderStatusShipped, resp.Status)
}

func TestOrdersHandler_UpdateStatus_BackwardRejected(t *testing.T) {
	order := pendingOrder("owner-1")
	order.Status = domain.OrderStatusDelivered
	repo := &orderRepoMock{orders: map[uuid.UUID]*domain.Order{order.ID: order}}
	handler := NewOrdersHandler(&checkoutMock{}, repo, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withOwner(httptest.NewRequest("PATCH", "/orders/"+order.ID.String()+"/status",
		bytes.NewBufferString(`{"status":"pending"}`)), "owner-1")
	newOrdersRouter(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusConflict, recorder.Code)
}

func TestOrdersHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	order := pendingOrder("owner-1")
	repo := &orderRepoMock{orders: map[uuid.UUID]*domain.Order{order.ID: order}}
	handler := NewOrdersHandler(&checkoutMock{}, repo, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withOwner(httptest.NewRequest("PATCH", "/orders/"+order.ID.String()+"/status",
		bytes.NewBufferString(`{"status":"teleported"}`)), "owner-1")
	newOrdersRouter(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}
