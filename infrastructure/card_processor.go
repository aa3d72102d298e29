package infrastructure

import (
	"context"

	"minivenmo/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CardProcessor stands in for the card network. Every charge succeeds.
type CardProcessor struct{}

// NewCardProcessor creates a new card processor
func NewCardProcessor() *CardProcessor {
	return &CardProcessor{}
}

// Charge records the charge and reports success
func (p *CardProcessor) Charge(ctx context.Context, cardNumber string, amount decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"card":   utils.MaskCardNumber(cardNumber),
		"amount": amount.StringFixed(2),
	}).Debug("Charged card through processor stub")
	return nil
}
