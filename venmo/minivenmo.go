// Package venmo is the entry point to the ledger: it owns the user registry
// and wires the domain services together.
package venmo

import (
	"context"
	"errors"
	"fmt"

	"minivenmo/domain/entities"
	"minivenmo/domain/interfaces"
	"minivenmo/domain/services"
	"minivenmo/infrastructure"
	"minivenmo/infrastructure/observability"
	"minivenmo/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Options configures a MiniVenmo. Zero values fall back to in-process defaults.
type Options struct {
	UserRepo            interfaces.UserRepository
	Charger             interfaces.CardCharger
	Publisher           interfaces.EventPublisher
	Sink                interfaces.FeedSink
	Metrics             interfaces.MetricsRecorder
	AcceptedCardNumbers []string
}

// MiniVenmo is the user registry and the front door to payments, friendships and feeds
type MiniVenmo struct {
	users    *services.UserService
	payments *services.PaymentService
	friends  *services.FriendService
	feeds    *services.FeedService
}

// New creates a MiniVenmo from opts
func New(opts Options) *MiniVenmo {
	if opts.UserRepo == nil {
		opts.UserRepo = repository.NewUserRepository()
	}
	if opts.Charger == nil {
		opts.Charger = infrastructure.NewCardProcessor()
	}
	if opts.Publisher == nil {
		opts.Publisher = infrastructure.NewNoopEventPublisher()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.GetMetrics()
	}

	publishers := infrastructure.NewTransactionalPublisherFactory(opts.Publisher)
	cards := services.NewCardService(opts.AcceptedCardNumbers, opts.Charger, opts.Metrics)
	seq := &entities.Sequence{}

	return &MiniVenmo{
		users:    services.NewUserService(opts.UserRepo, cards, publishers, opts.Metrics),
		payments: services.NewPaymentService(cards, publishers, opts.Metrics, seq),
		friends:  services.NewFriendService(publishers, opts.Metrics, seq),
		feeds:    services.NewFeedService(opts.Sink),
	}
}

// CreateUser registers a user with an initial balance and, unless cardNumber is empty, a card
func (v *MiniVenmo) CreateUser(ctx context.Context, username string, initialBalance decimal.Decimal, cardNumber string) (*entities.User, error) {
	return v.users.CreateUser(ctx, username, initialBalance, cardNumber)
}

// GetUser looks up a registered user
func (v *MiniVenmo) GetUser(ctx context.Context, username string) (*entities.User, error) {
	return v.users.GetUser(ctx, username)
}

// Users returns the registered users in creation order
func (v *MiniVenmo) Users(ctx context.Context) ([]*entities.User, error) {
	return v.users.ListUsers(ctx)
}

// Pay moves amount from actor to target
func (v *MiniVenmo) Pay(ctx context.Context, actor, target *entities.User, amount decimal.Decimal, note string) (*entities.Payment, error) {
	return v.payments.Pay(ctx, actor, target, amount, note)
}

// AddFriend adds friend to user's friend list
func (v *MiniVenmo) AddFriend(ctx context.Context, user, friend *entities.User) ([]*entities.User, error) {
	return v.friends.AddFriend(ctx, user, friend)
}

// AddCreditCard attaches a card to the user
func (v *MiniVenmo) AddCreditCard(ctx context.Context, user *entities.User, cardNumber string) error {
	return v.users.AddCreditCard(ctx, user, cardNumber)
}

// AddToBalance adds amount to the user's balance
func (v *MiniVenmo) AddToBalance(ctx context.Context, user *entities.User, amount decimal.Decimal) error {
	return v.users.AddToBalance(ctx, user, amount)
}

// RetrieveFeed returns the user's feed events, oldest first
func (v *MiniVenmo) RetrieveFeed(user *entities.User) ([]*entities.FeedEvent, error) {
	return v.feeds.RetrieveFeed(user)
}

// RenderFeed returns one line per feed event, oldest first
func (v *MiniVenmo) RenderFeed(user *entities.User) ([]string, error) {
	return v.feeds.RenderFeed(user)
}

// DisplayFeed hands the user's rendered feed to the configured sink
func (v *MiniVenmo) DisplayFeed(ctx context.Context, user *entities.User) error {
	return v.feeds.DisplayFeed(ctx, user)
}

// Run plays the demonstration: Bobby pays Carol from balance, Carol pays Bobby
// by card, Bobby's feed is displayed, then Bobby befriends Carol. It returns
// the feed lines that were displayed.
func (v *MiniVenmo) Run(ctx context.Context) ([]string, error) {
	bobby, err := v.CreateUser(ctx, "Bobby", decimal.RequireFromString("5.00"), "4111111111111111")
	if err != nil {
		return nil, fmt.Errorf("failed to create Bobby: %w", err)
	}
	carol, err := v.CreateUser(ctx, "Carol", decimal.RequireFromString("10.00"), "4242424242424242")
	if err != nil {
		return nil, fmt.Errorf("failed to create Carol: %w", err)
	}

	if err := v.demoPayments(ctx, bobby, carol); err != nil {
		// A rejected payment is reported and the demo carries on
		log.WithError(err).Warn("Demo payment rejected")
	}

	lines, err := v.RenderFeed(bobby)
	if err != nil {
		return nil, err
	}
	if err := v.DisplayFeed(ctx, bobby); err != nil && !errors.Is(err, services.ErrNoFeedSink) {
		return lines, err
	}

	if _, err := v.AddFriend(ctx, bobby, carol); err != nil {
		return lines, fmt.Errorf("failed to add friend: %w", err)
	}
	return lines, nil
}

func (v *MiniVenmo) demoPayments(ctx context.Context, bobby, carol *entities.User) error {
	// Covered by Bobby's balance
	if _, err := v.Pay(ctx, bobby, carol, decimal.RequireFromString("5.00"), "Coffee"); err != nil {
		return err
	}
	// Carol's balance falls short, so her card is charged
	if _, err := v.Pay(ctx, carol, bobby, decimal.RequireFromString("15.00"), "Lunch"); err != nil {
		return err
	}
	return nil
}
