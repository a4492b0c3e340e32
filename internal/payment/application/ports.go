package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/paygate/payment-gateway/internal/payment/domain"
)

var (
	// ErrNotFound is returned by GetPayment when the identifier resolves to
	// no stored payment. The transport layer maps it to 404.
	ErrNotFound = errors.New("payment not found")

	// ErrBankUnavailable marks an authorization attempt the acquiring bank
	// could not complete: transport failure, non-2xx status or an
	// undecodable response. It is never conflated with a decline.
	ErrBankUnavailable = errors.New("acquiring bank unavailable")
)

// BankAuthorization is the acquiring bank's verdict on one payment.
type BankAuthorization struct {
	Authorized        bool
	AuthorizationCode string
}

// AcquiringBank authorizes payments with the external acquirer.
type AcquiringBank interface {
	AuthorizePayment(ctx context.Context, p domain.Payment) (BankAuthorization, error)
}

// PaymentRepository persists finalized payments. SaveWithOutbox writes the
// payment row and its domain event atomically; Get returns ErrNotFound for
// unknown ids.
type PaymentRepository interface {
	SaveWithOutbox(ctx context.Context, p domain.Payment, eventType string, payload []byte) error
	Get(ctx context.Context, id uuid.UUID) (domain.Payment, error)
}

// ProjectionCache is an optional read-through cache for the Get path.
// Cache failures must never fail a request.
type ProjectionCache interface {
	Get(ctx context.Context, id uuid.UUID) (Projection, bool, error)
	Set(ctx context.Context, proj Projection) error
}
