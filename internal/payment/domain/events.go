package domain

// Event types recorded in the outbox alongside a finalized payment.
const (
	EventTypeAuthorized = "PaymentAuthorized"
	EventTypeDeclined   = "PaymentDeclined"
)

type PaymentAuthorized struct {
	PaymentID          string `json:"payment_id"`
	CardNumberLastFour int    `json:"card_number_last_four"`
	Currency           string `json:"currency"`
	Amount             int64  `json:"amount"`
	AuthorizationCode  string `json:"authorization_code"`
}

type PaymentDeclined struct {
	PaymentID          string `json:"payment_id"`
	CardNumberLastFour int    `json:"card_number_last_four"`
	Currency           string `json:"currency"`
	Amount             int64  `json:"amount"`
}
