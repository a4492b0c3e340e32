package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/paygate/payment-gateway/internal/payment/domain"
	"github.com/paygate/payment-gateway/pkg/metrics"
)

// CreatePaymentInput is the raw request as received from the transport
// layer, before any validation.
type CreatePaymentInput struct {
	CardNumber  string
	ExpiryMonth int
	ExpiryYear  int
	Cvv         string
	Currency    string
	Amount      int64
}

// Service orchestrates the payment workflow. It holds no per-request state;
// all collaborators are passed in at construction.
type Service struct {
	log   *slog.Logger
	repo  PaymentRepository
	bank  AcquiringBank
	cache ProjectionCache
}

// NewService wires the orchestrator. cache may be nil.
func NewService(log *slog.Logger, repo PaymentRepository, bank AcquiringBank, cache ProjectionCache) *Service {
	return &Service{log: log, repo: repo, bank: bank, cache: cache}
}

// CreatePayment runs validation, the acquiring bank call, the status
// transition and persistence, strictly in that order. Validation failures
// short-circuit before any I/O. A bank call that cannot complete persists
// nothing and surfaces ErrBankUnavailable.
func (s *Service) CreatePayment(ctx context.Context, in CreatePaymentInput) (Projection, error) {
	p, err := domain.NewPayment(in.CardNumber, in.ExpiryMonth, in.ExpiryYear, in.Cvv, in.Currency, in.Amount)
	if err != nil {
		metrics.PaymentsRejected.Inc()
		return Projection{}, err
	}

	verdict, err := s.bank.AuthorizePayment(ctx, p)
	if err != nil {
		metrics.BankUnavailable.Inc()
		s.log.Error("bank authorization failed", "payment_id", p.ID, "card", p.MaskedCardNumber(), "err", err)
		return Projection{}, err
	}

	eventType, payload, p, err := s.applyVerdict(p, verdict)
	if err != nil {
		return Projection{}, err
	}

	if err := s.repo.SaveWithOutbox(ctx, p, eventType, payload); err != nil {
		return Projection{}, fmt.Errorf("persist payment: %w", err)
	}
	s.log.Info("payment recorded", "payment_id", p.ID, "status", p.Status, "card", p.MaskedCardNumber())

	proj := project(p)
	s.cacheSet(ctx, proj)
	return proj, nil
}

// GetPayment looks a payment up by id and projects it. Unknown ids surface
// ErrNotFound; any other store failure propagates untouched.
func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (Projection, error) {
	if s.cache != nil {
		proj, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn("projection cache read failed", "payment_id", id, "err", err)
		} else if ok {
			return proj, nil
		}
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Projection{}, err
	}

	proj := project(p)
	s.cacheSet(ctx, proj)
	return proj, nil
}

func (s *Service) applyVerdict(p domain.Payment, verdict BankAuthorization) (string, []byte, domain.Payment, error) {
	var (
		eventType string
		event     any
		err       error
	)
	if verdict.Authorized {
		p, err = p.Authorize(verdict.AuthorizationCode)
		if err != nil {
			return "", nil, domain.Payment{}, err
		}
		metrics.PaymentsAuthorized.Inc()
		eventType = domain.EventTypeAuthorized
		event = domain.PaymentAuthorized{
			PaymentID:          p.ID.String(),
			CardNumberLastFour: p.LastFourCardDigits,
			Currency:           p.Currency.String(),
			Amount:             p.Amount,
			AuthorizationCode:  p.AuthorizationCode,
		}
	} else {
		p, err = p.Decline()
		if err != nil {
			return "", nil, domain.Payment{}, err
		}
		metrics.PaymentsDeclined.Inc()
		eventType = domain.EventTypeDeclined
		event = domain.PaymentDeclined{
			PaymentID:          p.ID.String(),
			CardNumberLastFour: p.LastFourCardDigits,
			Currency:           p.Currency.String(),
			Amount:             p.Amount,
		}
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", nil, domain.Payment{}, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return eventType, payload, p, nil
}

func (s *Service) cacheSet(ctx context.Context, proj Projection) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, proj); err != nil {
		s.log.Warn("projection cache write failed", "payment_id", proj.ID, "err", err)
	}
}
