package services

import (
	"context"
	"fmt"

	"minivenmo/domain/entities"
	"minivenmo/domain/events"
	"minivenmo/domain/interfaces"
	"minivenmo/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// UserService creates users and manages their balance and card
type UserService struct {
	userRepo   interfaces.UserRepository
	cards      *CardService
	publishers interfaces.TransactionalPublisherFactory
	metrics    interfaces.MetricsRecorder
}

// NewUserService creates a new user service
func NewUserService(userRepo interfaces.UserRepository, cards *CardService, publishers interfaces.TransactionalPublisherFactory, metrics interfaces.MetricsRecorder) *UserService {
	return &UserService{
		userRepo:   userRepo,
		cards:      cards,
		publishers: publishers,
		metrics:    metrics,
	}
}

// CreateUser builds a user, applies the initial balance and attaches the card.
// An empty card number creates a user without a card. Nothing is registered
// unless every step succeeds.
func (s *UserService) CreateUser(ctx context.Context, username string, initialBalance decimal.Decimal, cardNumber string) (*entities.User, error) {
	user, err := entities.NewUser(username)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, entities.ErrUsernameTaken
	}

	before, after := user.AddToBalance(initialBalance)

	if cardNumber != "" {
		if err := user.AttachCreditCard(cardNumber, s.cards.IsValid); err != nil {
			return nil, err
		}
	}

	// Registering last keeps a rejected user out of the registry
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	publisher := s.publishers.Create()
	if err := publisher.Publish(events.UserCreatedEvent{
		Username:       username,
		InitialBalance: after,
		HasCreditCard:  cardNumber != "",
	}); err != nil {
		log.WithError(err).Error("Failed to publish user created event")
	}
	if err := utils.RecordBalanceChange(publisher, entities.NewBalanceChange(username, before, after, entities.TransactionTypeInitial, "")); err != nil {
		log.WithError(err).Error("Failed to record initial balance")
	}
	if cardNumber != "" {
		s.publishCardAdded(publisher, username, cardNumber)
	}
	if err := publisher.Flush(ctx); err != nil {
		log.WithError(err).Error("Failed to flush user created events")
	}

	s.metrics.RecordUserCreated()
	log.WithFields(log.Fields{
		"username":       username,
		"initialBalance": after.StringFixed(2),
		"hasCard":        cardNumber != "",
	}).Info("User created")

	return user, nil
}

// GetUser looks a user up by username
func (s *UserService) GetUser(ctx context.Context, username string) (*entities.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrUserNotFound, username)
	}
	return user, nil
}

// ListUsers returns all users in registration order
func (s *UserService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// AddCreditCard attaches a card to the user. A user keeps the first card it is given.
func (s *UserService) AddCreditCard(ctx context.Context, user *entities.User, cardNumber string) error {
	if user == nil {
		return entities.ErrUserNotFound
	}
	if err := user.AttachCreditCard(cardNumber, s.cards.IsValid); err != nil {
		return err
	}

	publisher := s.publishers.Create()
	s.publishCardAdded(publisher, user.Username(), cardNumber)
	if err := publisher.Flush(ctx); err != nil {
		log.WithError(err).Error("Failed to flush credit card events")
	}
	return nil
}

// AddToBalance adds amount to the user's balance. Negative amounts are applied as given.
func (s *UserService) AddToBalance(ctx context.Context, user *entities.User, amount decimal.Decimal) error {
	if user == nil {
		return entities.ErrUserNotFound
	}
	before, after := user.AddToBalance(amount)

	publisher := s.publishers.Create()
	if err := utils.RecordBalanceChange(publisher, entities.NewBalanceChange(user.Username(), before, after, entities.TransactionTypeDeposit, "")); err != nil {
		log.WithError(err).Error("Failed to record deposit")
	}
	if err := publisher.Flush(ctx); err != nil {
		log.WithError(err).Error("Failed to flush deposit events")
	}
	return nil
}

func (s *UserService) publishCardAdded(publisher interfaces.EventPublisher, username, cardNumber string) {
	event := events.CreditCardAddedEvent{
		Username: username,
		LastFour: utils.LastFour(cardNumber),
	}
	if err := publisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish credit card added event")
	}
}
