package domain

import "errors"

// Validation rule identifiers, in the order they are checked.
const (
	RuleCardNumber  = "card_number"
	RuleExpiryMonth = "expiry_month"
	RuleExpiryYear  = "expiry_year"
	RuleCvv         = "cvv"
	RuleCurrency    = "currency"
	RuleAmount      = "amount"
)

// ValidationError reports the first business rule a payment request
// violated. Callers branch on it with errors.As.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrAlreadyFinalized is returned when an authorization outcome is recorded
// on a payment that already has one.
var ErrAlreadyFinalized = errors.New("payment authorization already recorded")
