package utils

import (
	"fmt"

	"minivenmo/domain/entities"
	"minivenmo/domain/events"
	"minivenmo/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange validates a balance change and emits the matching event.
// This is the single entry point for reporting balance changes. A change that
// leaves the balance untouched emits nothing.
func RecordBalanceChange(eventPublisher interfaces.EventPublisher, change *entities.BalanceChange) error {
	if err := change.Validate(); err != nil {
		return fmt.Errorf("failed to record balance change: %w", err)
	}
	if change.IsNoop() {
		return nil
	}

	event := events.BalanceChangeEvent{
		Username:        change.Username,
		OldBalance:      change.BalanceBefore,
		NewBalance:      change.BalanceAfter,
		ChangeAmount:    change.ChangeAmount,
		TransactionType: change.TransactionType,
		PaymentID:       change.PaymentID,
		Description:     change.GetTransactionDescription(),
		SystemGenerated: change.TransactionType.IsSystemGenerated(),
	}
	log.WithFields(log.Fields{
		"username":        event.Username,
		"oldBalance":      event.OldBalance.String(),
		"newBalance":      event.NewBalance.String(),
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount.String(),
		"description":     event.Description,
		"systemGenerated": event.SystemGenerated,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return nil
}
