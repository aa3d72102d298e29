package interfaces

import (
	"context"

	"github.com/shopspring/decimal"
)

// CardCharger charges a credit card through the card processor.
// Any returned error means the charge did not happen.
type CardCharger interface {
	Charge(ctx context.Context, cardNumber string, amount decimal.Decimal) error
}

// FeedSink displays rendered feed lines, e.g. on a console or in a chat channel
type FeedSink interface {
	Render(ctx context.Context, username string, lines []string) error
}

// MetricsRecorder records ledger metrics
type MetricsRecorder interface {
	RecordPayment(fundingSource string, amount float64)
	RecordPaymentRejected(reason string)
	RecordCardCharge(success bool)
	RecordFriendAdded()
	RecordUserCreated()
}
