package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vaishnavid04/Everwear/internal/domain"
	"github.com/vaishnavid04/Everwear/internal/orders"
)

// CartClearer is the slice of the cart service checkout needs.
type CartClearer interface {
	ClearCart(ctx context.Context, ownerID string) error
}

// OrderEventPublisher announces placed orders so the cart clear can be
// re-attempted out of band. Publishing is best-effort.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
}

type CheckoutService struct {
	orders    orders.OrderRepository
	cart      CartClearer
	publisher OrderEventPublisher
}

func NewCheckoutService(repo orders.OrderRepository, cart CartClearer, publisher OrderEventPublisher) *CheckoutService {
	return &CheckoutService{
		orders:    repo,
		cart:      cart,
		publisher: publisher,
	}
}

// PlaceOrder records an immutable order snapshot and then clears the
// owner's cart. The two are separate calls with no shared transaction:
// if the clear fails the order stands and the stale cart is cleaned up
// by the order-placed consumer or the next push.
func (s *CheckoutService) PlaceOrder(ctx context.Context, ownerID string, items []domain.OrderItem, total float64) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	// Snapshot the lines so later mutations by the caller (or catalog
	// price changes) cannot reach into the stored order.
	snapshot := make([]domain.OrderItem, len(items))
	copy(snapshot, items)

	for i := range snapshot {
		if snapshot[i].ProductID <= 0 {
			return nil, ErrMissingProduct
		}
		if snapshot[i].Quantity < 1 {
			snapshot[i].Quantity = 1
		}
	}
	if total <= 0 {
		total = recomputeTotal(snapshot)
	}

	order := &domain.Order{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Items:     snapshot,
		Total:     total,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	// Order is durable from here on; everything below is best-effort.
	if err := s.cart.ClearCart(ctx, ownerID); err != nil {
		log.Printf("cart clear after order %s failed: %v", order.ID, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			log.Printf("publish order placed %s failed: %v", order.ID, err)
		}
	}

	return order, nil
}

func recomputeTotal(items []domain.OrderItem) float64 {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	if subtotal > 0 && subtotal < domain.FreeShippingThreshold {
		return subtotal + domain.FlatShippingFee
	}
	return subtotal
}
