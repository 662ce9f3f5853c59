// Package eventbus carries booking domain events out of the write path:
// in-process delivery for local mode, RabbitMQ for service mode.
package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
)

// Publisher publishes serialized domain events under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
}

// Envelope is the wire form of a domain event.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// Marshal wraps a domain event in an Envelope and serializes it.
func Marshal(event sharedDomain.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	})
}

// PublishAll publishes every event, logging and continuing on failure.
// Event delivery is best-effort and never fails the write that raised it.
func PublishAll(ctx context.Context, pub Publisher, logger *slog.Logger, events []sharedDomain.DomainEvent) {
	if pub == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	for _, event := range events {
		body, err := Marshal(event)
		if err != nil {
			logger.Error("failed to marshal domain event",
				"routing_key", event.RoutingKey(),
				"error", err,
			)
			continue
		}
		if err := pub.Publish(ctx, event.RoutingKey(), body); err != nil {
			logger.Error("failed to publish domain event",
				"routing_key", event.RoutingKey(),
				"error", err,
			)
		}
	}
}
