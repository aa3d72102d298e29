package entities

import (
	"fmt"
	"sync/atomic"
	"time"
)

// FeedEventKind discriminates the feed event variants
type FeedEventKind string

const (
	FeedEventKindPayment    FeedEventKind = "payment"
	FeedEventKindFriendship FeedEventKind = "friendship"
)

// FeedEvent is one entry of a user's activity feed.
// Exactly one of Payment or Friendship is set, matching Kind.
type FeedEvent struct {
	Kind       FeedEventKind
	Seq        int64
	CreatedAt  time.Time
	Payment    *PaymentActivity
	Friendship *FriendshipActivity
}

// PaymentActivity is the payload of a payment feed event
type PaymentActivity struct {
	Sender   string
	Receiver string
	Payment  *Payment
}

// FriendshipActivity is the payload of a friendship feed event
type FriendshipActivity struct {
	User   string
	Friend string
}

// NewPaymentEvent builds a payment feed event referencing the payment
func NewPaymentEvent(seq int64, payment *Payment) *FeedEvent {
	return &FeedEvent{
		Kind:      FeedEventKindPayment,
		Seq:       seq,
		CreatedAt: payment.CreatedAt(),
		Payment: &PaymentActivity{
			Sender:   payment.Actor().Username(),
			Receiver: payment.Target().Username(),
			Payment:  payment,
		},
	}
}

// NewFriendshipEvent builds a friendship feed event
func NewFriendshipEvent(seq int64, user, friend string, createdAt time.Time) *FeedEvent {
	return &FeedEvent{
		Kind:      FeedEventKindFriendship,
		Seq:       seq,
		CreatedAt: createdAt,
		Friendship: &FriendshipActivity{
			User:   user,
			Friend: friend,
		},
	}
}

// IsPayment returns true for payment events
func (e *FeedEvent) IsPayment() bool {
	return e.Kind == FeedEventKindPayment
}

// IsFriendship returns true for friendship events
func (e *FeedEvent) IsFriendship() bool {
	return e.Kind == FeedEventKindFriendship
}

// String renders the event as a single feed line
func (e *FeedEvent) String() string {
	switch e.Kind {
	case FeedEventKindPayment:
		p := e.Payment
		return fmt.Sprintf("%s paid %s $%s for %s", p.Sender, p.Receiver, p.Payment.Amount().StringFixedBank(2), p.Payment.Note())
	case FeedEventKindFriendship:
		return fmt.Sprintf("%s added %s as a friend", e.Friendship.User, e.Friendship.Friend)
	default:
		return fmt.Sprintf("unknown feed event %q", e.Kind)
	}
}

// Sequence hands out ledger-wide monotonic feed sequence numbers
type Sequence struct {
	n atomic.Int64
}

// Next returns the next sequence number, starting at 1
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}
