package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedEvent_String(t *testing.T) {
	bobby, err := NewUser("Bobby")
	require.NoError(t, err)
	carol, err := NewUser("Carol")
	require.NoError(t, err)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		event    *FeedEvent
		expected string
	}{
		{
			name:     "whole dollars get two decimals",
			event:    NewPaymentEvent(1, NewPayment(decimal.NewFromInt(5), bobby, carol, "Coffee", FundingSourceBalance, now)),
			expected: "Bobby paid Carol $5.00 for Coffee",
		},
		{
			name:     "cents are rounded to two places",
			event:    NewPaymentEvent(2, NewPayment(decimal.RequireFromString("15.456"), carol, bobby, "Lunch", FundingSourceCard, now)),
			expected: "Carol paid Bobby $15.46 for Lunch",
		},
		{
			name:     "half cents round to even",
			event:    NewPaymentEvent(2, NewPayment(decimal.RequireFromString("0.125"), bobby, carol, "Gum", FundingSourceBalance, now)),
			expected: "Bobby paid Carol $0.12 for Gum",
		},
		{
			name:     "friendship",
			event:    NewFriendshipEvent(3, "Bobby", "Carol", now),
			expected: "Bobby added Carol as a friend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.String())
		})
	}
}

func TestFeedEvent_Variants(t *testing.T) {
	bobby, _ := NewUser("Bobby")
	carol, _ := NewUser("Carol")
	now := time.Now()

	payment := NewPayment(decimal.NewFromInt(1), bobby, carol, "Gum", FundingSourceBalance, now)
	paymentEvent := NewPaymentEvent(1, payment)
	assert.True(t, paymentEvent.IsPayment())
	assert.False(t, paymentEvent.IsFriendship())
	assert.Nil(t, paymentEvent.Friendship)
	assert.Same(t, payment, paymentEvent.Payment.Payment)
	assert.Equal(t, "Bobby", paymentEvent.Payment.Sender)
	assert.Equal(t, "Carol", paymentEvent.Payment.Receiver)

	friendEvent := NewFriendshipEvent(2, "Bobby", "Carol", now)
	assert.True(t, friendEvent.IsFriendship())
	assert.False(t, friendEvent.IsPayment())
	assert.Nil(t, friendEvent.Payment)
}

func TestFeed_AppendKeepsOrder(t *testing.T) {
	feed := NewFeed()
	now := time.Now()

	for i := int64(1); i <= 5; i++ {
		feed.Append(NewFriendshipEvent(i, "Bobby", "Carol", now))
	}
	// Duplicates are recorded, never collapsed
	dup := NewFriendshipEvent(6, "Bobby", "Carol", now)
	feed.Append(dup)
	feed.Append(dup)

	events := feed.Events()
	require.Len(t, events, 7)
	for i := 0; i < 5; i++ {
		assert.Equal(t, int64(i+1), events[i].Seq)
	}
	assert.Equal(t, 7, feed.Len())
	assert.Len(t, feed.Lines(), 7)

	// Events returns a copy
	events[0] = nil
	assert.NotNil(t, feed.Events()[0])
}

func TestPayment_Immutable(t *testing.T) {
	bobby, _ := NewUser("Bobby")
	carol, _ := NewUser("Carol")
	now := time.Now()

	first := NewPayment(decimal.NewFromInt(5), bobby, carol, "Coffee", FundingSourceBalance, now)
	second := NewPayment(decimal.NewFromInt(5), bobby, carol, "Coffee", FundingSourceBalance, now)

	assert.NotEmpty(t, first.ID())
	assert.NotEqual(t, first.ID(), second.ID())
	assert.True(t, first.Amount().Equal(decimal.NewFromInt(5)))
	assert.Same(t, bobby, first.Actor())
	assert.Same(t, carol, first.Target())
	assert.Equal(t, "Coffee", first.Note())
	assert.False(t, first.IsCardFunded())
	assert.Equal(t, now, first.CreatedAt())
}

func TestSequence_Next(t *testing.T) {
	var seq Sequence
	assert.Equal(t, int64(1), seq.Next())
	assert.Equal(t, int64(2), seq.Next())
	assert.Equal(t, int64(3), seq.Next())
}
