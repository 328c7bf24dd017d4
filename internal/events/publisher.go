package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/vaishnavid04/Everwear/internal/domain"
)

const orderTopic = "order-events"

// OrderPlacedEvent is the Kafka payload written when checkout succeeds.
// The owner key keeps events for one shopper on one partition.
type OrderPlacedEvent struct {
	OrderID  string             `json:"order_id"`
	OwnerID  string             `json:"owner_id"`
	Items    []domain.OrderItem `json:"items"`
	Total    float64            `json:"total"`
	PlacedAt time.Time          `json:"placed_at"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	event := OrderPlacedEvent{
		OrderID:  order.ID.String(),
		OwnerID:  order.OwnerID,
		Items:    order.Items,
		Total:    order.Total,
		PlacedAt: order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(order.OwnerID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order_placed")},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
