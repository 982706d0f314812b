package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/claims-intake/internal/domain/claim"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/errors"
)

const (
	TopicClaimRouted = "claim.routed"

	EventTypeClaimRouted = "claim.routed"
	sourceService        = "claims-intake"
	schemaVersion        = "v1"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

func NewEventEnvelope(eventType string, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       data,
	}, nil
}

func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(e.Payload, target)
}

// ToMessage serializes the envelope for topic, keyed by key.
func (e *EventEnvelope) ToMessage(topic string, key string) (*Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	return &Message{
		Topic: topic,
		Key:   []byte(key),
		Value: val,
		Headers: map[string]string{
			"event_type":     e.EventType,
			"source_service": e.Source,
			"schema_version": e.SchemaVersion,
		},
		Timestamp: e.Timestamp,
	}, nil
}

// publisher is the part of Producer the event publisher needs.
type publisher interface {
	Publish(ctx context.Context, msg *Message) error
}

// ClaimEventPublisher emits routing decisions to TopicClaimRouted, keyed by
// claim ID so events for one claim stay on one partition.
type ClaimEventPublisher struct {
	producer publisher
	topic    string
	logger   logging.Logger
}

var _ claim.EventPublisher = (*ClaimEventPublisher)(nil)

func NewClaimEventPublisher(producer *Producer, logger logging.Logger) *ClaimEventPublisher {
	return newClaimEventPublisher(producer, logger)
}

func newClaimEventPublisher(p publisher, logger logging.Logger) *ClaimEventPublisher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ClaimEventPublisher{producer: p, topic: TopicClaimRouted, logger: logger}
}

func (c *ClaimEventPublisher) PublishClaimRouted(ctx context.Context, ev *claim.ClaimRoutedEvent) error {
	env, err := NewEventEnvelope(EventTypeClaimRouted, sourceService, ev)
	if err != nil {
		return err
	}
	env.EventID = ev.EventID()
	env.Timestamp = ev.OccurredAt()
	env.Metadata = map[string]string{"claim_type": string(ev.ClaimType)}

	msg, err := env.ToMessage(c.topic, ev.AggregateID())
	if err != nil {
		return err
	}
	if err := c.producer.Publish(ctx, msg); err != nil {
		return err
	}
	c.logger.Debug("claim routed event published", logging.ClaimID(ev.AggregateID()), logging.String("topic", c.topic))
	return nil
}

//Personal.AI order the ending
