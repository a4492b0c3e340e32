package application

import (
	"github.com/google/uuid"

	"github.com/paygate/payment-gateway/internal/payment/domain"
)

// Projection is the response-shaped view of a payment handed to external
// consumers. It never carries the full card number or the cvv.
type Projection struct {
	ID                 uuid.UUID `json:"id"`
	Status             string    `json:"status"`
	CardNumberLastFour int       `json:"card_number_last_four"`
	ExpiryMonth        int       `json:"expiry_month"`
	ExpiryYear         int       `json:"expiry_year"`
	Currency           string    `json:"currency"`
	Amount             int64     `json:"amount"`
	AuthorizationCode  string    `json:"authorization_code,omitempty"`
}

func project(p domain.Payment) Projection {
	return Projection{
		ID:                 p.ID,
		Status:             p.Status.String(),
		CardNumberLastFour: p.LastFourCardDigits,
		ExpiryMonth:        p.ExpiryMonth,
		ExpiryYear:         p.ExpiryYear,
		Currency:           p.Currency.String(),
		Amount:             p.Amount,
		AuthorizationCode:  p.AuthorizationCode,
	}
}
