package services

import (
	"testing"

	"minivenmo/domain/entities"
	"minivenmo/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	TestCardNumber    = "4111111111111111"
	TestAltCardNumber = "4242424242424242"
)

// TestMocks aggregates the collaborators services are built from
type TestMocks struct {
	UserRepo   *testhelpers.MockUserRepository
	Charger    *testhelpers.MockCardCharger
	Sink       *testhelpers.MockFeedSink
	Publishers *testhelpers.StagingPublisherFactory
	Metrics    *testhelpers.MetricsSpy
	Seq        *entities.Sequence
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		UserRepo:   &testhelpers.MockUserRepository{},
		Charger:    &testhelpers.MockCardCharger{},
		Sink:       &testhelpers.MockFeedSink{},
		Publishers: testhelpers.NewStagingPublisherFactory(),
		Metrics:    testhelpers.NewMetricsSpy(),
		Seq:        &entities.Sequence{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.UserRepo.AssertExpectations(t)
	m.Charger.AssertExpectations(t)
	m.Sink.AssertExpectations(t)
}

func (m *TestMocks) cardService() *CardService {
	return NewCardService(nil, m.Charger, m.Metrics)
}

func (m *TestMocks) paymentService() *PaymentService {
	return NewPaymentService(m.cardService(), m.Publishers, m.Metrics, m.Seq)
}

func (m *TestMocks) friendService() *FriendService {
	return NewFriendService(m.Publishers, m.Metrics, m.Seq)
}

func (m *TestMocks) userService() *UserService {
	return NewUserService(m.UserRepo, m.cardService(), m.Publishers, m.Metrics)
}

// newTestUser builds a user directly, bypassing the registry
func newTestUser(t *testing.T, username string, balance string, cardNumber string) *entities.User {
	t.Helper()
	user, err := entities.NewUser(username)
	require.NoError(t, err)
	user.AddToBalance(decimal.RequireFromString(balance))
	if cardNumber != "" {
		require.NoError(t, user.AttachCreditCard(cardNumber, func(string) bool { return true }))
	}
	return user
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
