package events

import (
	"time"

	"minivenmo/domain/entities"

	"github.com/shopspring/decimal"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeUserCreated      EventType = "user_created"
	EventTypeBalanceChange    EventType = "balance_change"
	EventTypeCreditCardAdded  EventType = "credit_card_added"
	EventTypePaymentCompleted EventType = "payment_completed"
	EventTypeFriendAdded      EventType = "friend_added"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// UserCreatedEvent represents a new user registration
type UserCreatedEvent struct {
	Username       string          `json:"username"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	HasCreditCard  bool            `json:"has_credit_card"`
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	Username        string                   `json:"username"`
	OldBalance      decimal.Decimal          `json:"old_balance"`
	NewBalance      decimal.Decimal          `json:"new_balance"`
	ChangeAmount    decimal.Decimal          `json:"change_amount"`
	TransactionType entities.TransactionType `json:"transaction_type"`
	PaymentID       string                   `json:"payment_id,omitempty"`
	Description     string                   `json:"description"`
	SystemGenerated bool                     `json:"system_generated"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// CreditCardAddedEvent represents a card being attached to a user.
// Only the last four digits leave the process.
type CreditCardAddedEvent struct {
	Username string `json:"username"`
	LastFour string `json:"last_four"`
}

func (e CreditCardAddedEvent) Type() EventType {
	return EventTypeCreditCardAdded
}

// PaymentCompletedEvent represents a successful payment
type PaymentCompletedEvent struct {
	PaymentID     string                 `json:"payment_id"`
	Sender        string                 `json:"sender"`
	Receiver      string                 `json:"receiver"`
	Amount        decimal.Decimal        `json:"amount"`
	Note          string                 `json:"note"`
	FundingSource entities.FundingSource `json:"funding_source"`
	Seq           int64                  `json:"seq"`
	CreatedAt     time.Time              `json:"created_at"`
}

func (e PaymentCompletedEvent) Type() EventType {
	return EventTypePaymentCompleted
}

// FriendAddedEvent represents a user adding another user as a friend
type FriendAddedEvent struct {
	Username  string    `json:"username"`
	Friend    string    `json:"friend"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

func (e FriendAddedEvent) Type() EventType {
	return EventTypeFriendAdded
}
