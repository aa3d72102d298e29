package infrastructure

import (
	"fmt"

	"minivenmo/domain/events"
)

const (
	SubjectUserCreated      = "users.created"
	SubjectBalanceChanged   = "users.balance_changed"
	SubjectCreditCardAdded  = "users.credit_card_added"
	SubjectPaymentCompleted = "payments.completed"
	SubjectFriendAdded      = "friends.added"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct {
	prefix string
}

// NewEventSubjectMapper creates a mapper; a non-empty prefix is prepended to every subject
func NewEventSubjectMapper(prefix string) *EventSubjectMapper {
	return &EventSubjectMapper{prefix: prefix}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeUserCreated:
		return m.qualify(SubjectUserCreated)
	case events.EventTypeBalanceChange:
		return m.qualify(SubjectBalanceChanged)
	case events.EventTypeCreditCardAdded:
		return m.qualify(SubjectCreditCardAdded)
	case events.EventTypePaymentCompleted:
		return m.qualify(SubjectPaymentCompleted)
	case events.EventTypeFriendAdded:
		return m.qualify(SubjectFriendAdded)
	default:
		// Fallback for unknown event types
		return m.qualify(fmt.Sprintf("unknown.%s", event.Type()))
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		m.qualify(SubjectUserCreated),
		m.qualify(SubjectBalanceChanged),
		m.qualify(SubjectCreditCardAdded),
		m.qualify(SubjectPaymentCompleted),
		m.qualify(SubjectFriendAdded),
	}
}

func (m *EventSubjectMapper) qualify(subject string) string {
	if m.prefix == "" {
		return subject
	}
	return m.prefix + "." + subject
}
