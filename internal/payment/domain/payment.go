package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Payment is the record of one payment attempt. NewPayment is the only way
// to obtain one, so an instance always satisfies every field invariant.
// Status starts at NotSet and moves exactly once, through Authorize or
// Decline, both of which operate on a value receiver and hand back the
// transitioned copy.
type Payment struct {
	ID                 uuid.UUID
	CardNumber         string
	LastFourCardDigits int
	ExpiryMonth        int
	ExpiryYear         int
	Cvv                string
	Currency           Currency
	Amount             int64
	Status             PaymentStatus
	AuthorizationCode  string
	CreatedAt          time.Time
}

// NewPayment validates raw input and constructs a payment. Rules are checked
// in a fixed order (card number, expiry month, expiry year, cvv, currency,
// amount) and the first violation wins; no partially valid payment exists.
func NewPayment(cardNumber string, expiryMonth, expiryYear int, cvv, currency string, amount int64) (Payment, error) {
	if err := validateCardNumber(cardNumber); err != nil {
		return Payment{}, err
	}
	if expiryMonth < 1 || expiryMonth > 12 {
		return Payment{}, &ValidationError{Rule: RuleExpiryMonth, Message: "expiry month must be between 1 and 12"}
	}
	if expiryYear < 1 || expiryYear > 9999 {
		return Payment{}, &ValidationError{Rule: RuleExpiryYear, Message: "expiry year must be between 1 and 9999"}
	}
	if err := validateCvv(cvv); err != nil {
		return Payment{}, err
	}
	cur, err := ParseCurrency(currency)
	if err != nil {
		return Payment{}, err
	}
	if amount <= 0 {
		return Payment{}, &ValidationError{Rule: RuleAmount, Message: "amount must be greater than zero"}
	}

	return Payment{
		ID:                 uuid.New(),
		CardNumber:         cardNumber,
		LastFourCardDigits: lastFourDigits(cardNumber),
		ExpiryMonth:        expiryMonth,
		ExpiryYear:         expiryYear,
		Cvv:                cvv,
		Currency:           cur,
		Amount:             amount,
		Status:             StatusNotSet,
		CreatedAt:          time.Now().UTC(),
	}, nil
}

// Authorize records a successful bank verdict together with its
// authorization code. It fails if an outcome was already recorded.
func (p Payment) Authorize(code string) (Payment, error) {
	if p.Status != StatusNotSet {
		return Payment{}, ErrAlreadyFinalized
	}
	p.Status = StatusAuthorized
	p.AuthorizationCode = code
	return p, nil
}

// Decline records an unsuccessful bank verdict. No authorization code
// accompanies a decline.
func (p Payment) Decline() (Payment, error) {
	if p.Status != StatusNotSet {
		return Payment{}, ErrAlreadyFinalized
	}
	p.Status = StatusDeclined
	p.AuthorizationCode = ""
	return p, nil
}

// MaskedCardNumber is the only card number form that may reach storage or
// logs: every digit but the last four replaced with '*'.
func (p Payment) MaskedCardNumber() string {
	if len(p.CardNumber) <= 4 {
		return strings.Repeat("*", len(p.CardNumber))
	}
	return strings.Repeat("*", len(p.CardNumber)-4) + p.CardNumber[len(p.CardNumber)-4:]
}

func validateCardNumber(cardNumber string) error {
	if strings.TrimSpace(cardNumber) == "" {
		return &ValidationError{Rule: RuleCardNumber, Message: "card number is required"}
	}
	if len(cardNumber) < 14 || len(cardNumber) > 19 {
		return &ValidationError{Rule: RuleCardNumber, Message: "card number must be between 14 and 19 digits long"}
	}
	if !allDigits(cardNumber) {
		return &ValidationError{Rule: RuleCardNumber, Message: "card number must contain only numeric characters"}
	}
	return nil
}

func validateCvv(cvv string) error {
	if len(cvv) < 3 || len(cvv) > 4 {
		return &ValidationError{Rule: RuleCvv, Message: "cvv must contain 3 or 4 characters"}
	}
	if !allDigits(cvv) {
		return &ValidationError{Rule: RuleCvv, Message: "cvv must contain only numeric characters"}
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func lastFourDigits(cardNumber string) int {
	if len(cardNumber) <= 4 {
		return 0
	}
	n, err := strconv.Atoi(cardNumber[len(cardNumber)-4:])
	if err != nil {
		panic(fmt.Sprintf("card number validated as numeric but not parseable: %v", err))
	}
	return n
}
