package infrastructure

import (
	"context"

	"minivenmo/domain/events"
	"minivenmo/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// TransactionalPublisher holds events until flush, then hands them to the real publisher.
// An operation that fails discards its pending events so nothing about it leaves the process.
type TransactionalPublisher struct {
	realPublisher interfaces.EventPublisher
	pending       []events.Event
}

// NewTransactionalPublisher creates a new transactional publisher
func NewTransactionalPublisher(realPublisher interfaces.EventPublisher) *TransactionalPublisher {
	return &TransactionalPublisher{
		realPublisher: realPublisher,
		pending:       make([]events.Event, 0),
	}
}

// Publish stores an event in the pending queue without immediately publishing
func (p *TransactionalPublisher) Publish(event events.Event) error {
	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"pendingCount": len(p.pending),
	}).Debug("Adding event to transactional publisher pending queue")

	p.pending = append(p.pending, event)
	return nil
}

// Flush publishes all pending events in the order they were staged
func (p *TransactionalPublisher) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(p.pending),
	}).Debug("Flushing pending events from transactional publisher")

	for _, event := range p.pending {
		if err := p.realPublisher.Publish(event); err != nil {
			// Keep going so one failure does not hold back the rest
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to publish event during flush")
		}
	}

	p.pending = p.pending[:0]
	return nil
}

// Discard clears all pending events without publishing them
func (p *TransactionalPublisher) Discard() {
	log.WithFields(log.Fields{
		"discardedEventCount": len(p.pending),
	}).Debug("Discarding pending events from transactional publisher")

	p.pending = p.pending[:0]
}

// Pending returns the number of staged events
func (p *TransactionalPublisher) Pending() int {
	return len(p.pending)
}

// TransactionalPublisherFactory creates a TransactionalPublisher per operation over one real publisher
type TransactionalPublisherFactory struct {
	realPublisher interfaces.EventPublisher
}

// NewTransactionalPublisherFactory creates a new factory
func NewTransactionalPublisherFactory(realPublisher interfaces.EventPublisher) *TransactionalPublisherFactory {
	return &TransactionalPublisherFactory{realPublisher: realPublisher}
}

// Create returns a fresh transactional publisher
func (f *TransactionalPublisherFactory) Create() interfaces.TransactionalPublisher {
	return NewTransactionalPublisher(f.realPublisher)
}
