package services

import (
	"context"
	"fmt"
	"time"

	"minivenmo/domain/entities"
	"minivenmo/domain/events"
	"minivenmo/domain/interfaces"
	"minivenmo/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// PaymentService resolves how a payment is funded, applies it and journals it
type PaymentService struct {
	cards      *CardService
	publishers interfaces.TransactionalPublisherFactory
	metrics    interfaces.MetricsRecorder
	seq        *entities.Sequence
	now        func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(cards *CardService, publishers interfaces.TransactionalPublisherFactory, metrics interfaces.MetricsRecorder, seq *entities.Sequence) *PaymentService {
	return &PaymentService{
		cards:      cards,
		publishers: publishers,
		metrics:    metrics,
		seq:        seq,
		now:        time.Now,
	}
}

// Pay moves amount from actor to target.
//
// Checks run in a fixed order and the first failure wins: self payment,
// non-positive amount, missing card. The payment is then funded from the
// actor's balance when it covers the whole amount, otherwise from the card.
// A balance-funded payment does not credit the target; a card-funded one
// credits the target and leaves the actor's balance alone.
func (s *PaymentService) Pay(ctx context.Context, actor, target *entities.User, amount decimal.Decimal, note string) (*entities.Payment, error) {
	if actor == nil || target == nil {
		return nil, entities.ErrUserNotFound
	}
	if actor.Username() == target.Username() {
		return nil, s.reject(entities.ErrCannotPaySelf)
	}
	if !amount.IsPositive() {
		return nil, s.reject(entities.ErrNonPositiveAmount)
	}

	publisher := s.publishers.Create()
	payment, err := s.settle(ctx, actor, target, amount, note, publisher)
	if err != nil {
		publisher.Discard()
		return nil, err
	}

	if err := publisher.Flush(ctx); err != nil {
		log.WithError(err).Error("Failed to flush payment events")
	}

	s.metrics.RecordPayment(payment.FundingSource().String(), amount.InexactFloat64())
	log.WithFields(log.Fields{
		"paymentID":     payment.ID(),
		"sender":        actor.Username(),
		"receiver":      target.Username(),
		"amount":        amount.StringFixed(2),
		"fundingSource": payment.FundingSource(),
	}).Info("Payment completed")

	return payment, nil
}

// settle runs with both users' guards held so the funding decision and the
// mutations it leads to see one consistent state
func (s *PaymentService) settle(ctx context.Context, actor, target *entities.User, amount decimal.Decimal, note string, publisher interfaces.EventPublisher) (*entities.Payment, error) {
	release := entities.LockPair(actor, target)
	defer release()

	cardNumber := actor.CreditCardNumberLocked()
	if cardNumber == "" {
		return nil, s.reject(entities.ErrNoCreditCard)
	}

	if actor.BalanceLocked().GreaterThanOrEqual(amount) {
		return s.payWithBalance(actor, target, amount, note, publisher)
	}
	return s.payWithCard(ctx, actor, target, amount, note, cardNumber, publisher)
}

func (s *PaymentService) payWithBalance(actor, target *entities.User, amount decimal.Decimal, note string, publisher interfaces.EventPublisher) (*entities.Payment, error) {
	payment := entities.NewPayment(amount, actor, target, note, entities.FundingSourceBalance, s.now())

	before := actor.BalanceLocked()
	change := entities.NewBalanceChange(actor.Username(), before, before.Sub(amount), entities.TransactionTypePaymentOut, payment.ID())
	if err := utils.RecordBalanceChange(publisher, change); err != nil {
		return nil, fmt.Errorf("failed to record sender balance change: %w", err)
	}

	actor.DebitLocked(amount)
	s.journal(actor, target, payment, publisher)
	return payment, nil
}

func (s *PaymentService) payWithCard(ctx context.Context, actor, target *entities.User, amount decimal.Decimal, note, cardNumber string, publisher interfaces.EventPublisher) (*entities.Payment, error) {
	// The charge must succeed before anything is built or mutated
	if err := s.cards.Charge(ctx, cardNumber, amount); err != nil {
		return nil, err
	}

	payment := entities.NewPayment(amount, actor, target, note, entities.FundingSourceCard, s.now())

	before := target.BalanceLocked()
	change := entities.NewBalanceChange(target.Username(), before, before.Add(amount), entities.TransactionTypePaymentIn, payment.ID())
	if err := utils.RecordBalanceChange(publisher, change); err != nil {
		return nil, fmt.Errorf("failed to record recipient balance change: %w", err)
	}

	target.CreditLocked(amount)
	s.journal(actor, target, payment, publisher)
	return payment, nil
}

// journal appends one payment event to both participants' feeds
func (s *PaymentService) journal(actor, target *entities.User, payment *entities.Payment, publisher interfaces.EventPublisher) {
	event := entities.NewPaymentEvent(s.seq.Next(), payment)
	actor.AppendFeedLocked(event)
	target.AppendFeedLocked(event)

	completed := events.PaymentCompletedEvent{
		PaymentID:     payment.ID(),
		Sender:        actor.Username(),
		Receiver:      target.Username(),
		Amount:        payment.Amount(),
		Note:          payment.Note(),
		FundingSource: payment.FundingSource(),
		Seq:           event.Seq,
		CreatedAt:     payment.CreatedAt(),
	}
	if err := publisher.Publish(completed); err != nil {
		log.WithError(err).Error("Failed to publish payment completed event")
	}
}

func (s *PaymentService) reject(err *entities.PaymentError) error {
	s.metrics.RecordPaymentRejected(err.Reason)
	log.WithField("reason", err.Reason).Debug("Payment rejected")
	return err
}
