package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/paygate/payment-gateway/internal/payment/application"
	"github.com/paygate/payment-gateway/internal/payment/domain"
	"github.com/paygate/payment-gateway/pkg/metrics"
)

// Client talks to the acquiring bank over its fixed JSON contract:
// POST {base}/payments with card details, expiry as "MM/YYYY".
// Every way the call can fail to complete — transport error, non-2xx
// status, undecodable body — surfaces as ErrBankUnavailable so the caller
// never mistakes an outage for a decline.
type Client struct {
	log     *slog.Logger
	httpc   *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewClient(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		log:     log,
		httpc:   &http.Client{Timeout: timeout},
		baseURL: baseURL,
		tracer:  otel.Tracer("acquiring-bank"),
	}
}

type authorizeRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	Currency   string `json:"currency"`
	Amount     int64  `json:"amount"`
	Cvv        string `json:"cvv"`
}

type authorizeResponse struct {
	Authorized        bool    `json:"authorized"`
	AuthorizationCode *string `json:"authorization_code"`
}

func (c *Client) AuthorizePayment(ctx context.Context, p domain.Payment) (application.BankAuthorization, error) {
	ctx, span := c.tracer.Start(ctx, "AuthorizePayment")
	defer span.End()

	body, err := json.Marshal(authorizeRequest{
		CardNumber: p.CardNumber,
		ExpiryDate: fmt.Sprintf("%02d/%d", p.ExpiryMonth, p.ExpiryYear),
		Currency:   p.Currency.String(),
		Amount:     p.Amount,
		Cvv:        p.Cvv,
	})
	if err != nil {
		return application.BankAuthorization{}, fmt.Errorf("marshal authorize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return application.BankAuthorization{}, fmt.Errorf("build authorize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	metrics.BankRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		// A caller-driven cancellation is not a bank outage.
		if ctx.Err() != nil {
			return application.BankAuthorization{}, ctx.Err()
		}
		c.log.Error("bank request failed", "card", p.MaskedCardNumber(), "err", err)
		return application.BankAuthorization{}, fmt.Errorf("%w: %v", application.ErrBankUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("bank returned non-success status", "status", resp.StatusCode)
		return application.BankAuthorization{}, fmt.Errorf("%w: status %d", application.ErrBankUnavailable, resp.StatusCode)
	}

	var out authorizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.log.Error("bank response undecodable", "err", err)
		return application.BankAuthorization{}, fmt.Errorf("%w: decode response: %v", application.ErrBankUnavailable, err)
	}

	code := ""
	if out.AuthorizationCode != nil {
		code = *out.AuthorizationCode
	}
	return application.BankAuthorization{Authorized: out.Authorized, AuthorizationCode: code}, nil
}
