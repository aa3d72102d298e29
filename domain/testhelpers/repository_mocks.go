package testhelpers

import (
	"context"

	"minivenmo/domain/entities"
	"minivenmo/domain/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockCardCharger is a mock implementation of CardCharger
type MockCardCharger struct {
	mock.Mock
}

func (m *MockCardCharger) Charge(ctx context.Context, cardNumber string, amount decimal.Decimal) error {
	args := m.Called(ctx, cardNumber, amount)
	return args.Error(0)
}

// MockFeedSink is a mock implementation of FeedSink
type MockFeedSink struct {
	mock.Mock
}

func (m *MockFeedSink) Render(ctx context.Context, username string, lines []string) error {
	args := m.Called(ctx, username, lines)
	return args.Error(0)
}

// RecordingPublisher keeps every published event in order
type RecordingPublisher struct {
	Events       []events.Event
	PublishError error
}

func (p *RecordingPublisher) Publish(event events.Event) error {
	if p.PublishError != nil {
		return p.PublishError
	}
	p.Events = append(p.Events, event)
	return nil
}

// OfType returns the recorded events of the given type
func (p *RecordingPublisher) OfType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, e := range p.Events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}
