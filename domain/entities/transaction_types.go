package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the ledger
const (
	// System transactions
	TransactionTypeInitial TransactionType = "initial"
	TransactionTypeDeposit TransactionType = "deposit"

	// Payment transactions
	TransactionTypePaymentOut TransactionType = "payment_out"
	TransactionTypePaymentIn  TransactionType = "payment_in"
)

// IsPaymentType returns true if the transaction type was produced by a payment
func (tt TransactionType) IsPaymentType() bool {
	return tt == TransactionTypePaymentOut ||
		tt == TransactionTypePaymentIn
}

// IsSystemGenerated returns true if the transaction type did not come from a payment
func (tt TransactionType) IsSystemGenerated() bool {
	return tt == TransactionTypeInitial ||
		tt == TransactionTypeDeposit
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}

// FundingSource records where the money for a payment came from
type FundingSource string

const (
	FundingSourceBalance FundingSource = "balance"
	FundingSourceCard    FundingSource = "card"
)

// String returns the string representation of the funding source
func (fs FundingSource) String() string {
	return string(fs)
}
