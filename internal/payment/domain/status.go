package domain

import "fmt"

// PaymentStatus tracks the authorization lifecycle of a payment. It says
// nothing about validation: a request that fails validation never becomes
// a Payment at all and is reported to the caller as Rejected.
type PaymentStatus string

const (
	// StatusNotSet is the state of every freshly constructed payment.
	StatusNotSet PaymentStatus = "NotSet"
	// StatusAuthorized and StatusDeclined are terminal and assigned exactly
	// once, from the acquiring bank's verdict.
	StatusAuthorized PaymentStatus = "Authorized"
	StatusDeclined   PaymentStatus = "Declined"
	// StatusRejected never appears on a stored payment; it only occurs in
	// responses for requests that failed validation.
	StatusRejected PaymentStatus = "Rejected"
)

// ParsePaymentStatus resolves a stored status string, failing on anything
// outside the closed set.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch ps := PaymentStatus(s); ps {
	case StatusNotSet, StatusAuthorized, StatusDeclined, StatusRejected:
		return ps, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

func (s PaymentStatus) String() string { return string(s) }
