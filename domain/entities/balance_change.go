package entities

import (
	"errors"

	"github.com/shopspring/decimal"
)

// BalanceChange describes one change to a user's balance
type BalanceChange struct {
	Username        string
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	ChangeAmount    decimal.Decimal
	TransactionType TransactionType
	PaymentID       string
}

// NewBalanceChange builds a change from the balances before and after
func NewBalanceChange(username string, before, after decimal.Decimal, transactionType TransactionType, paymentID string) *BalanceChange {
	return &BalanceChange{
		Username:        username,
		BalanceBefore:   before,
		BalanceAfter:    after,
		ChangeAmount:    after.Sub(before),
		TransactionType: transactionType,
		PaymentID:       paymentID,
	}
}

// IsNoop returns true if the balance did not move
func (c *BalanceChange) IsNoop() bool {
	return c.ChangeAmount.IsZero()
}

// Validate performs basic consistency checks on the change
func (c *BalanceChange) Validate() error {
	if !c.BalanceAfter.Equal(c.BalanceBefore.Add(c.ChangeAmount)) {
		return errors.New("balance calculation is inconsistent")
	}
	if c.TransactionType.IsPaymentType() && c.PaymentID == "" {
		return errors.New("payment balance change without payment id")
	}
	return nil
}

// GetTransactionDescription returns a human-readable description of the change
func (c *BalanceChange) GetTransactionDescription() string {
	switch c.TransactionType {
	case TransactionTypeInitial:
		return "Initial balance"
	case TransactionTypeDeposit:
		return "Deposit"
	case TransactionTypePaymentOut:
		return "Payment sent"
	case TransactionTypePaymentIn:
		return "Payment received"
	default:
		return string(c.TransactionType)
	}
}
