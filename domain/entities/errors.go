package entities

import "errors"

// ErrUserNotFound is returned when a username is not registered or a nil user is passed
var ErrUserNotFound = errors.New("user not found")

// UsernameError reports an invalid or unavailable username
type UsernameError struct {
	Reason string
}

func (e *UsernameError) Error() string {
	return "username error: " + e.Reason
}

// CreditCardError reports an invalid card, a duplicate card or a failed charge
type CreditCardError struct {
	Reason string
	Err    error
}

func (e *CreditCardError) Error() string {
	if e.Err != nil {
		return "credit card error: " + e.Reason + ": " + e.Err.Error()
	}
	return "credit card error: " + e.Reason
}

func (e *CreditCardError) Unwrap() error {
	return e.Err
}

// Is matches on Reason so a wrapped charge failure still satisfies errors.Is(err, ErrChargeFailed)
func (e *CreditCardError) Is(target error) bool {
	t, ok := target.(*CreditCardError)
	if !ok {
		return false
	}
	return e.Reason == t.Reason
}

// PaymentError reports a payment rejected before any state was touched
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return "payment error: " + e.Reason
}

var (
	ErrInvalidUsername = &UsernameError{Reason: "username not valid"}
	ErrUsernameTaken   = &UsernameError{Reason: "username already taken"}

	ErrCardAlreadyAttached = &CreditCardError{Reason: "already has a card"}
	ErrInvalidCardNumber   = &CreditCardError{Reason: "invalid card number"}
	ErrChargeFailed        = &CreditCardError{Reason: "charge failed"}

	ErrCannotPaySelf     = &PaymentError{Reason: "cannot pay self"}
	ErrNonPositiveAmount = &PaymentError{Reason: "amount must be positive"}
	ErrNoCreditCard      = &PaymentError{Reason: "no credit card on file"}
)

// NewChargeError wraps a card processor failure
func NewChargeError(cause error) error {
	return &CreditCardError{Reason: ErrChargeFailed.Reason, Err: cause}
}
