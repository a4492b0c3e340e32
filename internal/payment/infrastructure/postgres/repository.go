package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paygate/payment-gateway/internal/payment/application"
	"github.com/paygate/payment-gateway/internal/payment/domain"
	"github.com/paygate/payment-gateway/pkg/tracing"
)

// Repository stores finalized payments. The raw card number and the cvv
// never reach the database: only the masked form and the last four digits
// are written.
type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// Migrate creates the payments and outbox tables when they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			masked_card_number TEXT NOT NULL,
			card_last_four INT NOT NULL,
			expiry_month INT NOT NULL,
			expiry_year INT NOT NULL,
			currency TEXT NOT NULL,
			amount BIGINT NOT NULL,
			status TEXT NOT NULL,
			authorization_code TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outbox (
			id BIGSERIAL PRIMARY KEY,
			aggregate_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			type TEXT NOT NULL,
			payload BYTEA NOT NULL,
			traceparent TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			relay_id TEXT,
			lease_until TIMESTAMPTZ,
			retry_count INT NOT NULL DEFAULT 0,
			last_error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS outbox_pending_idx ON outbox (id) WHERE status = 'pending'`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) SaveWithOutbox(ctx context.Context, p domain.Payment, eventType string, payload []byte) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var code *string
	if p.AuthorizationCode != "" {
		code = &p.AuthorizationCode
	}

	_, err = tx.Exec(ctx, `INSERT INTO payments
			(id, masked_card_number, card_last_four, expiry_month, expiry_year, currency, amount, status, authorization_code, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.MaskedCardNumber(), p.LastFourCardDigits, p.ExpiryMonth, p.ExpiryYear,
		p.Currency.String(), p.Amount, p.Status.String(), code, p.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
			VALUES ($1,$2,$3,$4,$5,'pending')`,
		"payment", p.ID.String(), eventType, payload, tracing.Traceparent(ctx))
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	var (
		p        domain.Payment
		status   string
		currency string
		authCode *string
	)
	err := r.pool.QueryRow(ctx, `SELECT id, masked_card_number, card_last_four, expiry_month, expiry_year,
			currency, amount, status, authorization_code, created_at
			FROM payments WHERE id=$1`, id).
		Scan(&p.ID, &p.CardNumber, &p.LastFourCardDigits, &p.ExpiryMonth, &p.ExpiryYear,
			&currency, &p.Amount, &status, &authCode, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payment{}, application.ErrNotFound
	}
	if err != nil {
		return domain.Payment{}, err
	}

	p.Currency = domain.Currency(currency)
	ps, err := domain.ParsePaymentStatus(status)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("stored payment %s: %w", id, err)
	}
	p.Status = ps
	if authCode != nil {
		p.AuthorizationCode = *authCode
	}
	return p, nil
}
