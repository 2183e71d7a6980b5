package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Type string

const (
	CartQuantityUpdated Type = "cart.quantity_updated"
	CartLineRemoved     Type = "cart.line_removed"
	OrderCreated        Type = "order.created"
	PaymentDispatched   Type = "payment.dispatched"
	SessionEnded        Type = "session.ended"
)

// Event is one storefront activity record. Fields not relevant to Type are
// left zero.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	SessionID  string    `json:"session_id"`
	ProductKey string    `json:"product_key,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	Method     string    `json:"method,omitempty"`
	Success    *bool     `json:"success,omitempty"`
	Message    string    `json:"message,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// New stamps an event with an id and the current time.
func New(t Type, sessionID string) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
		logger: logger,
	}
}

// Publish keys messages by session so one shopper's activity stays ordered
// within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
		Time:  event.Timestamp,
	}); err != nil {
		p.logger.Error("Failed to publish %s event: %v", event.Type, err)
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewPublisher returns a kafka publisher, or a no-op one when brokers is
// empty.
func NewPublisher(brokers []string, topic string, logger *logger.Logger) Publisher {
	if len(brokers) == 0 {
		logger.Info("No Kafka brokers configured, storefront events are dropped")
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic, logger)
}
