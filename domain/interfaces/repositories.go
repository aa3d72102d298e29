package interfaces

import (
	"context"

	"minivenmo/domain/entities"
	"minivenmo/domain/events"
)

// UserRepository defines the interface for the user registry
type UserRepository interface {
	// GetByUsername retrieves a user by username, returning nil if not registered
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// Create registers a user, failing if the username is already taken
	Create(ctx context.Context, user *entities.User) error

	// GetAll returns all users in registration order
	GetAll(ctx context.Context) ([]*entities.User, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalPublisher holds events until Flush; Discard drops them.
// Operations stage their events here so nothing is published for a call that fails.
type TransactionalPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}

// TransactionalPublisherFactory creates a fresh TransactionalPublisher per operation
type TransactionalPublisherFactory interface {
	Create() TransactionalPublisher
}
