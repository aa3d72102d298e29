package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is the immutable record of one funds transfer.
// Fields are unexported so nothing outside this package can alter a recorded payment.
type Payment struct {
	id            string
	amount        decimal.Decimal
	actor         *User
	target        *User
	note          string
	fundingSource FundingSource
	createdAt     time.Time
}

// NewPayment creates a payment with a fresh UUID
func NewPayment(amount decimal.Decimal, actor, target *User, note string, source FundingSource, createdAt time.Time) *Payment {
	return &Payment{
		id:            uuid.New().String(),
		amount:        amount,
		actor:         actor,
		target:        target,
		note:          note,
		fundingSource: source,
		createdAt:     createdAt,
	}
}

func (p *Payment) ID() string                   { return p.id }
func (p *Payment) Amount() decimal.Decimal      { return p.amount }
func (p *Payment) Actor() *User                 { return p.actor }
func (p *Payment) Target() *User                { return p.target }
func (p *Payment) Note() string                 { return p.note }
func (p *Payment) FundingSource() FundingSource { return p.fundingSource }
func (p *Payment) CreatedAt() time.Time         { return p.createdAt }

// IsCardFunded returns true if the payment was charged to the actor's card
func (p *Payment) IsCardFunded() bool {
	return p.fundingSource == FundingSourceCard
}
