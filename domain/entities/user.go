package entities

import (
	"regexp"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,15}$`)

// User holds a balance, an optional credit card, a one-sided friend list and a feed.
//
// Every mutable field is guarded by mu. Methods without the Locked suffix take the
// guard themselves; Locked methods require the caller to hold it, normally through
// LockPair.
type User struct {
	mu               sync.Mutex
	username         string
	balance          decimal.Decimal
	creditCardNumber string
	friends          []*User
	feed             *Feed
	createdAt        time.Time
}

// ValidateUsername checks a username against the allowed pattern
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// NewUser creates a user with a zero balance, no card and an empty feed
func NewUser(username string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	return &User{
		username:  username,
		balance:   decimal.Zero,
		friends:   make([]*User, 0),
		feed:      NewFeed(),
		createdAt: time.Now(),
	}, nil
}

// Username returns the immutable username
func (u *User) Username() string {
	return u.username
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// Balance returns the current balance
func (u *User) Balance() decimal.Decimal {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.balance
}

// CreditCardNumber returns the attached card number, or "" if none
func (u *User) CreditCardNumber() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.creditCardNumber
}

// HasCreditCard checks if a card is attached
func (u *User) HasCreditCard() bool {
	return u.CreditCardNumber() != ""
}

// AddToBalance adds amount (of any sign) and reports the balance before and after
func (u *User) AddToBalance(amount decimal.Decimal) (before, after decimal.Decimal) {
	u.mu.Lock()
	defer u.mu.Unlock()
	before = u.balance
	u.balance = u.balance.Add(amount)
	return before, u.balance
}

// AttachCreditCard sets the card once. The duplicate check runs before the validity check.
func (u *User) AttachCreditCard(number string, isValid func(string) bool) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.creditCardNumber != "" {
		return ErrCardAlreadyAttached
	}
	if !isValid(number) {
		return ErrInvalidCardNumber
	}
	u.creditCardNumber = number
	return nil
}

// Friends returns the friend list in order of addition
func (u *User) Friends() []*User {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.FriendsLocked()
}

// IsFriend checks if other is on this user's friend list
func (u *User) IsFriend(other *User) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, f := range u.friends {
		if f == other {
			return true
		}
	}
	return false
}

// RetrieveFeed returns this user's feed events, oldest first
func (u *User) RetrieveFeed() []*FeedEvent {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.feed.Events()
}

// FeedLines returns this user's rendered feed, oldest first
func (u *User) FeedLines() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.feed.Lines()
}

// BalanceLocked returns the balance; caller must hold the guard
func (u *User) BalanceLocked() decimal.Decimal {
	return u.balance
}

// CreditCardNumberLocked returns the card number; caller must hold the guard
func (u *User) CreditCardNumberLocked() string {
	return u.creditCardNumber
}

// DebitLocked subtracts amount from the balance; caller must hold the guard
func (u *User) DebitLocked(amount decimal.Decimal) {
	u.balance = u.balance.Sub(amount)
}

// CreditLocked adds amount to the balance; caller must hold the guard
func (u *User) CreditLocked(amount decimal.Decimal) {
	u.balance = u.balance.Add(amount)
}

// AppendFeedLocked appends an event to the feed; caller must hold the guard
func (u *User) AppendFeedLocked(event *FeedEvent) {
	u.feed.Append(event)
}

// AddFriendLocked appends friend and returns the updated list; caller must hold the guard
func (u *User) AddFriendLocked(friend *User) []*User {
	u.friends = append(u.friends, friend)
	return u.FriendsLocked()
}

// FriendsLocked returns a copy of the friend list; caller must hold the guard
func (u *User) FriendsLocked() []*User {
	out := make([]*User, len(u.friends))
	copy(out, u.friends)
	return out
}

// LockPair acquires both users' guards in lexical username order and returns
// the function that releases them. Passing the same user twice locks it once.
func LockPair(a, b *User) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if b.username < a.username {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}
