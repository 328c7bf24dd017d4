package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/vaishnavid04/Everwear/internal/repository"
)

type cartClearer interface {
	ClearCart(ctx context.Context, ownerID string) error
}

type cacheInvalidator interface {
	Delete(ctx context.Context, ownerID string) error
}

// Consumer drains order-events and re-clears the owner's cart. Checkout
// already clears on the request path; this pass catches the clears that
// failed there, so a replayed event against an already-empty cart is normal.
type Consumer struct {
	carts  cartClearer
	cache  cacheInvalidator
	reader *kafka.Reader
}

func NewConsumer(carts cartClearer, cache cacheInvalidator, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    orderTopic,
		GroupID:  "storefront-cart-clearer",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{carts, cache, reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	err := c.reader.Close()
	if err != nil {
		fmt.Printf("error closing kafka reader: %v\n", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Printf("error reading message: %v\n", err)
		return
	}

	if err := c.handleMessage(ctx, m.Value); err != nil {
		fmt.Printf("failed to handle order event: %v\n", err)
	}
}

func (c *Consumer) handleMessage(ctx context.Context, payload []byte) error {
	var event OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("error parsing message: %w", err)
	}
	if event.OwnerID == "" {
		return fmt.Errorf("order event %s has no owner", event.OrderID)
	}

	clearCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.carts.ClearCart(clearCtx, event.OwnerID); err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			return fmt.Errorf("failed to clear cart for owner %s: %w", event.OwnerID, err)
		}
	}

	if c.cache != nil {
		if err := c.cache.Delete(clearCtx, event.OwnerID); err != nil {
			fmt.Printf("failed to drop cached cart for owner %s: %v\n", event.OwnerID, err)
		}
	}

	fmt.Printf("cart cleared for owner %s after order %s\n", event.OwnerID, event.OrderID)
	return nil
}
