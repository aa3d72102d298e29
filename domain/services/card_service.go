package services

import (
	"context"

	"minivenmo/domain/entities"
	"minivenmo/domain/interfaces"
	"minivenmo/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// DefaultAcceptedCardNumbers is the accepted set used when none is configured
var DefaultAcceptedCardNumbers = []string{"4111111111111111", "4242424242424242"}

// CardService validates card numbers and charges cards through the processor
type CardService struct {
	accepted map[string]struct{}
	charger  interfaces.CardCharger
	metrics  interfaces.MetricsRecorder
}

// NewCardService creates a card service accepting the given numbers,
// or DefaultAcceptedCardNumbers when the list is empty
func NewCardService(acceptedNumbers []string, charger interfaces.CardCharger, metrics interfaces.MetricsRecorder) *CardService {
	if len(acceptedNumbers) == 0 {
		acceptedNumbers = DefaultAcceptedCardNumbers
	}
	accepted := make(map[string]struct{}, len(acceptedNumbers))
	for _, n := range acceptedNumbers {
		accepted[n] = struct{}{}
	}
	return &CardService{
		accepted: accepted,
		charger:  charger,
		metrics:  metrics,
	}
}

// IsValid checks if the number is in the accepted set
func (s *CardService) IsValid(number string) bool {
	_, ok := s.accepted[number]
	return ok
}

// Charge charges amount to the card, converting any processor failure into a CreditCardError
func (s *CardService) Charge(ctx context.Context, cardNumber string, amount decimal.Decimal) error {
	if err := s.charger.Charge(ctx, cardNumber, amount); err != nil {
		s.metrics.RecordCardCharge(false)
		log.WithFields(log.Fields{
			"card":   utils.MaskCardNumber(cardNumber),
			"amount": amount.String(),
			"error":  err,
		}).Warn("Card charge failed")
		return entities.NewChargeError(err)
	}

	s.metrics.RecordCardCharge(true)
	log.WithFields(log.Fields{
		"card":   utils.MaskCardNumber(cardNumber),
		"amount": amount.String(),
	}).Debug("Card charged")
	return nil
}
