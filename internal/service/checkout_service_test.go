package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaishnavid04/Everwear/internal/domain"
	"github.com/vaishnavid04/Everwear/internal/orders"
)

type mockOrderRepo struct {
	m      sync.Mutex
	orders []*domain.Order
	err    error
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, orders.ErrOrderNotFound
}

func (m *mockOrderRepo) ListOrdersByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var out []*domain.Order
	for _, o := range m.orders {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o.Status = status
			return o, nil
		}
	}
	return nil, orders.ErrOrderNotFound
}

type mockCartClearer struct {
	m       sync.Mutex
	cleared []string
	err     error
}

func (m *mockCartClearer) ClearCart(_ context.Context, ownerID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cleared = append(m.cleared, ownerID)
	return nil
}

type mockPublisher struct {
	m         sync.Mutex
	published []*domain.Order
	err       error
}

func (m *mockPublisher) PublishOrderPlaced(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, order)
	return nil
}

func orderItems() []domain.OrderItem {
	return []domain.OrderItem{
		{ProductID: 1, Name: "Essential Tee", Quantity: 2, UnitPrice: 30.0, SelectedColor: "red", SelectedSize: "M"},
		{ProductID: 2, Name: "Comfy Beanie", Quantity: 1, UnitPrice: 28.0},
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	repo := &mockOrderRepo{}
	clearer := &mockCartClearer{}
	pub := &mockPublisher{}

	sut := NewCheckoutService(repo, clearer, pub)
	order, err := sut.PlaceOrder(context.Background(), "123", orderItems(), 98.0)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "123", order.OwnerID)
	assert.Equal(t, 98.0, order.Total)
	assert.Len(t, order.Items, 2)

	assert.Len(t, repo.orders, 1)
	assert.Equal(t, []string{"123"}, clearer.cleared)
	assert.Len(t, pub.published, 1)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	sut := NewCheckoutService(&mockOrderRepo{}, &mockCartClearer{}, nil)
	_, err := sut.PlaceOrder(context.Background(), "123", nil, 0)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_MissingProductIdentity(t *testing.T) {
	items := []domain.OrderItem{{Name: "mystery item", Quantity: 1, UnitPrice: 10.0}}
	sut := NewCheckoutService(&mockOrderRepo{}, &mockCartClearer{}, nil)
	_, err := sut.PlaceOrder(context.Background(), "123", items, 20.0)
	require.ErrorIs(t, err, ErrMissingProduct)
}

func TestPlaceOrder_QuantityNormalizedToOne(t *testing.T) {
	items := []domain.OrderItem{{ProductID: 1, Name: "Essential Tee", Quantity: 0, UnitPrice: 30.0}}
	repo := &mockOrderRepo{}
	sut := NewCheckoutService(repo, &mockCartClearer{}, nil)

	order, err := sut.PlaceOrder(context.Background(), "123", items, 40.0)
	require.NoError(t, err)
	assert.Equal(t, 1, order.Items[0].Quantity)
}

func TestPlaceOrder_RecomputesMissingTotal(t *testing.T) {
	repo := &mockOrderRepo{}
	sut := NewCheckoutService(repo, &mockCartClearer{}, nil)

	// 2x30 + 28 = 88, under the free shipping threshold
	order, err := sut.PlaceOrder(context.Background(), "123", orderItems(), 0)
	require.NoError(t, err)
	assert.Equal(t, 98.0, order.Total)
}

func TestPlaceOrder_RepoErrorAborts(t *testing.T) {
	repo := &mockOrderRepo{err: fmt.Errorf("database error")}
	clearer := &mockCartClearer{}
	sut := NewCheckoutService(repo, clearer, nil)

	_, err := sut.PlaceOrder(context.Background(), "123", orderItems(), 98.0)
	require.ErrorContains(t, err, "database error")
	assert.Empty(t, clearer.cleared, "cart must not be cleared when the order was not recorded")
}

func TestPlaceOrder_ClearFailureIsNonFatal(t *testing.T) {
	repo := &mockOrderRepo{}
	clearer := &mockCartClearer{err: fmt.Errorf("mongo down")}
	pub := &mockPublisher{}
	sut := NewCheckoutService(repo, clearer, pub)

	order, err := sut.PlaceOrder(context.Background(), "123", orderItems(), 98.0)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Len(t, pub.published, 1, "event still published so the clear can be retried")
}

func TestPlaceOrder_PublishFailureIsNonFatal(t *testing.T) {
	repo := &mockOrderRepo{}
	pub := &mockPublisher{err: fmt.Errorf("kafka unreachable")}
	sut := NewCheckoutService(repo, &mockCartClearer{}, pub)

	order, err := sut.PlaceOrder(context.Background(), "123", orderItems(), 98.0)
	require.NoError(t, err)
	require.NotNil(t, order)
}

func TestPlaceOrder_SnapshotIsImmutable(t *testing.T) {
	repo := &mockOrderRepo{}
	sut := NewCheckoutService(repo, &mockCartClearer{}, nil)

	items := orderItems()
	order, err := sut.PlaceOrder(context.Background(), "123", items, 98.0)
	require.NoError(t, err)

	// a later catalog price change must not touch the stored order
	items[0].UnitPrice = 99.0
	stored, err := repo.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 98.0, stored.Total)
	assert.Equal(t, 30.0, stored.Items[0].UnitPrice)
}
