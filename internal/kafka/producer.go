package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// CheckoutEvent is published for every payment-attempt transition.
// Degraded verification is only observable here and in the journal,
// never in the UI.
type CheckoutEvent struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	BookingID string    `json:"booking_id,omitempty"`
	At        time.Time `json:"at"`
}

const (
	EventPaymentInitiated = "payment_initiated"
	EventPaymentFinalized = "payment_finalized"
	EventPaymentDegraded  = "payment_degraded"
	EventPaymentCancelled = "payment_cancelled"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
