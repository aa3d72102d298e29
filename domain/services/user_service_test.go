package services

import (
	"context"
	"errors"
	"testing"

	"minivenmo/domain/entities"
	"minivenmo/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_Success(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.userService()

	mocks.UserRepo.On("GetByUsername", ctx, "Bobby").Return(nil, nil)
	mocks.UserRepo.On("Create", ctx, mock.AnythingOfType("*entities.User")).Return(nil)

	user, err := service.CreateUser(ctx, "Bobby", amount("5.00"), TestCardNumber)
	require.NoError(t, err)

	assert.Equal(t, "Bobby", user.Username())
	assert.True(t, user.Balance().Equal(amount("5.00")))
	assert.Equal(t, TestCardNumber, user.CreditCardNumber())

	sink := mocks.Publishers.Sink
	require.Len(t, sink.OfType(events.EventTypeUserCreated), 1)
	require.Len(t, sink.OfType(events.EventTypeBalanceChange), 1)
	cardAdded := sink.OfType(events.EventTypeCreditCardAdded)
	require.Len(t, cardAdded, 1)
	assert.Equal(t, "1111", cardAdded[0].(events.CreditCardAddedEvent).LastFour)

	assert.Equal(t, 1, mocks.Metrics.UsersCreated)
	mocks.AssertAllExpectations(t)
}

func TestCreateUser_WithoutCard(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.userService()

	mocks.UserRepo.On("GetByUsername", ctx, "Dave").Return(nil, nil)
	mocks.UserRepo.On("Create", ctx, mock.AnythingOfType("*entities.User")).Return(nil)

	user, err := service.CreateUser(ctx, "Dave", amount("0"), "")
	require.NoError(t, err)

	assert.False(t, user.HasCreditCard())
	assert.Empty(t, mocks.Publishers.Sink.OfType(events.EventTypeCreditCardAdded))
	// A zero initial balance is not a balance change
	assert.Empty(t, mocks.Publishers.Sink.OfType(events.EventTypeBalanceChange))
}

func TestCreateUser_InvalidUsername(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.userService()

	for _, username := range []string{"ab", "this_name_is_far_too_long", "bad name", "bad!", ""} {
		_, err := service.CreateUser(ctx, username, amount("1"), TestCardNumber)
		assert.ErrorIs(t, err, entities.ErrInvalidUsername, username)

		var usernameErr *entities.UsernameError
		assert.True(t, errors.As(err, &usernameErr))
	}

	mocks.UserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, mocks.Publishers.Sink.Events)
}

func TestCreateUser_InvalidCardRegistersNothing(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.userService()

	mocks.UserRepo.On("GetByUsername", ctx, "Bobby").Return(nil, nil)

	_, err := service.CreateUser(ctx, "Bobby", amount("5"), "1234567890123456")
	assert.ErrorIs(t, err, entities.ErrInvalidCardNumber)

	mocks.UserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, mocks.Publishers.Sink.Events)
	assert.Equal(t, 0, mocks.Metrics.UsersCreated)
}

func TestCreateUser_UsernameTaken(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.userService()

	existing := newTestUser(t, "Bobby", "0", "")
	mocks.UserRepo.On("GetByUsername", ctx, "Bobby").Return(existing, nil)

	_, err := service.CreateUser(ctx, "Bobby", amount("5"), "")
	assert.ErrorIs(t, err, entities.ErrUsernameTaken)
	mocks.UserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_RepositoryError(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.userService()

	mocks.UserRepo.On("GetByUsername", ctx, "Bobby").Return(nil, nil)
	mocks.UserRepo.On("Create", ctx, mock.Anything).Return(entities.ErrUsernameTaken)

	_, err := service.CreateUser(ctx, "Bobby", amount("5"), "")
	assert.ErrorIs(t, err, entities.ErrUsernameTaken)
	assert.Empty(t, mocks.Publishers.Sink.Events)
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.userService()

	bobby := newTestUser(t, "Bobby", "0", "")
	mocks.UserRepo.On("GetByUsername", ctx, "Bobby").Return(bobby, nil)
	mocks.UserRepo.On("GetByUsername", ctx, "Nobody").Return(nil, nil)

	got, err := service.GetUser(ctx, "Bobby")
	require.NoError(t, err)
	assert.Same(t, bobby, got)

	_, err = service.GetUser(ctx, "Nobody")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
	assert.ErrorContains(t, err, "Nobody")
}

func TestAddCreditCard(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.userService()

	user := newTestUser(t, "Bobby", "0", "")

	err := service.AddCreditCard(ctx, user, "0000000000000000")
	assert.ErrorIs(t, err, entities.ErrInvalidCardNumber)
	assert.False(t, user.HasCreditCard())

	require.NoError(t, service.AddCreditCard(ctx, user, TestCardNumber))
	assert.Equal(t, TestCardNumber, user.CreditCardNumber())

	// A second card is refused even when valid, and the first stays
	err = service.AddCreditCard(ctx, user, TestAltCardNumber)
	assert.ErrorIs(t, err, entities.ErrCardAlreadyAttached)
	assert.Equal(t, TestCardNumber, user.CreditCardNumber())

	// Duplicate check comes before validity
	err = service.AddCreditCard(ctx, user, "not-a-card")
	assert.ErrorIs(t, err, entities.ErrCardAlreadyAttached)

	assert.Len(t, mocks.Publishers.Sink.OfType(events.EventTypeCreditCardAdded), 1)
	assert.ErrorIs(t, service.AddCreditCard(ctx, nil, TestCardNumber), entities.ErrUserNotFound)
}

func TestAddToBalance(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.userService()

	user := newTestUser(t, "Bobby", "5", "")

	require.NoError(t, service.AddToBalance(ctx, user, amount("2.50")))
	require.NoError(t, service.AddToBalance(ctx, user, amount("-10")))
	assert.True(t, user.Balance().Equal(amount("-2.50")))

	changes := mocks.Publishers.Sink.OfType(events.EventTypeBalanceChange)
	require.Len(t, changes, 2)
	last := changes[1].(events.BalanceChangeEvent)
	assert.Equal(t, entities.TransactionTypeDeposit, last.TransactionType)
	assert.True(t, last.OldBalance.Equal(amount("7.50")))
	assert.True(t, last.NewBalance.Equal(amount("-2.50")))
}

func TestCardService_CustomAcceptedSet(t *testing.T) {
	mocks := NewTestMocks()
	cards := NewCardService([]string{"5555555555554444"}, mocks.Charger, mocks.Metrics)

	assert.True(t, cards.IsValid("5555555555554444"))
	assert.False(t, cards.IsValid(TestCardNumber))

	defaults := mocks.cardService()
	assert.True(t, defaults.IsValid(TestCardNumber))
	assert.True(t, defaults.IsValid(TestAltCardNumber))
	assert.False(t, defaults.IsValid(""))
}
