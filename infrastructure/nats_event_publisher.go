package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"minivenmo/domain/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// SourceService is stamped on every envelope this process publishes
	SourceService = "minivenmo"
	// DomainEventStream is the JetStream stream holding ledger events
	DomainEventStream = "minivenmo_events"
)

// MessagePublisher sends raw bytes to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps every event published to the bus
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// LocalHandler is invoked in-process for each published event of its type
type LocalHandler func(context.Context, events.Event) error

// NATSEventPublisher implements the EventPublisher interface using NATS
type NATSEventPublisher struct {
	client        MessagePublisher
	subjectMapper *EventSubjectMapper
	localHandlers map[events.EventType][]LocalHandler
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(client MessagePublisher, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		client:        client,
		subjectMapper: subjectMapper,
		localHandlers: make(map[events.EventType][]LocalHandler),
	}
}

// Publish runs local handlers for the event then sends its envelope to the mapped subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx := context.Background()
	eventType := event.Type()

	for _, handler := range p.localHandlers[eventType] {
		if err := handler(ctx, event); err != nil {
			// Handler failures never stop the bus publish
			log.WithFields(log.Fields{
				"eventType": eventType,
				"error":     err,
			}).Error("Local event handler failed")
		}
	}

	subject := p.subjectMapper.MapEventToSubject(event)

	envelope, err := NewEventEnvelope(event)
	if err != nil {
		return err
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.client.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": eventType,
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

// RegisterLocalHandler registers a handler invoked in this process for events of eventType
func (p *NATSEventPublisher) RegisterLocalHandler(eventType events.EventType, handler LocalHandler) {
	p.localHandlers[eventType] = append(p.localHandlers[eventType], handler)
	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(p.localHandlers[eventType]),
	}).Debug("Registered local event handler")
}

// NewEventEnvelope serializes event into a fresh envelope
func NewEventEnvelope(event events.Event) (*EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: SourceService,
		Payload:       payload,
	}, nil
}
