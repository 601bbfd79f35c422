package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/microfin/lending-engine/internal/domain/event"
	"github.com/microfin/lending-engine/pkg/kafka"
)

// KafkaEventPublisher implements port.EventPublisher on Kafka. All lending
// events go to a single topic keyed by aggregate ID, which keeps per-loan
// ordering within a partition.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates a publisher writing to the given topic.
func NewKafkaEventPublisher(producer *kafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// envelope is the wire shape of every published event: common metadata plus
// the event-specific payload.
type envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	TenantID      string          `json:"tenant_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// Publish sends each event to Kafka. Publishing stops at the first failure
// so the caller can retry the batch; consumers must be idempotent on event_id.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event payload %s: %w", evt.EventType(), err)
		}
		data, err := json.Marshal(envelope{
			EventID:       evt.EventID(),
			EventType:     evt.EventType(),
			AggregateID:   evt.AggregateID(),
			AggregateType: evt.AggregateType(),
			TenantID:      evt.TenantID(),
			OccurredAt:    evt.OccurredAt(),
			Payload:       payload,
		})
		if err != nil {
			return fmt.Errorf("marshal event envelope %s: %w", evt.EventType(), err)
		}

		msg := kafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: data,
			Headers: map[string]string{
				"event_type": evt.EventType(),
				"event_id":   evt.EventID(),
				"tenant_id":  evt.TenantID(),
			},
		}
		if err := p.producer.Publish(ctx, p.topic, msg); err != nil {
			return fmt.Errorf("publish event %s: %w", evt.EventType(), err)
		}
	}
	return nil
}
