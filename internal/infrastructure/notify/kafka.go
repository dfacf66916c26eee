package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// ResetRequestedEvent is the payload published for an external mailer.
const ResetRequestedEvent = "password_reset.requested"

type resetRequested struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Email      string    `json:"email"`
	ResetLink  string    `json:"reset_link"`
	OccurredAt time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes reset requests to a topic instead of mailing them.
type KafkaNotifier struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
		now: time.Now,
	}
}

func (n *KafkaNotifier) SendPasswordReset(ctx context.Context, email, resetLink string) error {
	evt := resetRequested{
		EventID:    uuid.NewString(),
		EventType:  ResetRequestedEvent,
		Email:      email,
		ResetLink:  resetLink,
		OccurredAt: n.now().UTC(),
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(email),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ResetRequestedEvent)},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", ResetRequestedEvent, err)
	}
	return nil
}

// Close flushes pending messages.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
