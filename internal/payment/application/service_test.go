package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paygate/payment-gateway/internal/payment/application"
	"github.com/paygate/payment-gateway/internal/payment/domain"
	"github.com/paygate/payment-gateway/internal/payment/infrastructure/memory"
)

type fakeBank struct {
	calls       int
	authorizeFn func(ctx context.Context, p domain.Payment) (application.BankAuthorization, error)
}

func (f *fakeBank) AuthorizePayment(ctx context.Context, p domain.Payment) (application.BankAuthorization, error) {
	f.calls++
	return f.authorizeFn(ctx, p)
}

type fakeRepo struct {
	saveFn func(ctx context.Context, p domain.Payment, eventType string, payload []byte) error
	getFn  func(ctx context.Context, id uuid.UUID) (domain.Payment, error)
}

func (f *fakeRepo) SaveWithOutbox(ctx context.Context, p domain.Payment, eventType string, payload []byte) error {
	return f.saveFn(ctx, p, eventType, payload)
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	return f.getFn(ctx, id)
}

type fakeCache struct {
	entries map[uuid.UUID]application.Projection
	getErr  error
	setErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[uuid.UUID]application.Projection{}}
}

func (f *fakeCache) Get(_ context.Context, id uuid.UUID) (application.Projection, bool, error) {
	if f.getErr != nil {
		return application.Projection{}, false, f.getErr
	}
	proj, ok := f.entries[id]
	return proj, ok, nil
}

func (f *fakeCache) Set(_ context.Context, proj application.Projection) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	f.entries[proj.ID] = proj
	return nil
}

func authorizingBank(code string) *fakeBank {
	return &fakeBank{authorizeFn: func(context.Context, domain.Payment) (application.BankAuthorization, error) {
		return application.BankAuthorization{Authorized: true, AuthorizationCode: code}, nil
	}}
}

func decliningBank() *fakeBank {
	return &fakeBank{authorizeFn: func(context.Context, domain.Payment) (application.BankAuthorization, error) {
		return application.BankAuthorization{Authorized: false}, nil
	}}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validInput() application.CreatePaymentInput {
	return application.CreatePaymentInput{
		CardNumber:  "2222405343248877",
		ExpiryMonth: 4,
		ExpiryYear:  2025,
		Cvv:         "123",
		Currency:    "GBP",
		Amount:      100,
	}
}

func TestCreatePayment_Authorized(t *testing.T) {
	repo := memory.NewRepository()
	svc := application.NewService(testLogger(), repo, authorizingBank("auth-code-1"), nil)

	proj, err := svc.CreatePayment(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, proj.ID)
	assert.Equal(t, "Authorized", proj.Status)
	assert.Equal(t, 8877, proj.CardNumberLastFour)
	assert.Equal(t, 4, proj.ExpiryMonth)
	assert.Equal(t, 2025, proj.ExpiryYear)
	assert.Equal(t, "GBP", proj.Currency)
	assert.Equal(t, int64(100), proj.Amount)
	assert.Equal(t, "auth-code-1", proj.AuthorizationCode)

	events := repo.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeAuthorized, events[0].Type)

	var payload domain.PaymentAuthorized
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, proj.ID.String(), payload.PaymentID)
	assert.Equal(t, "auth-code-1", payload.AuthorizationCode)
}

func TestCreatePayment_Declined(t *testing.T) {
	repo := memory.NewRepository()
	svc := application.NewService(testLogger(), repo, decliningBank(), nil)

	proj, err := svc.CreatePayment(context.Background(), application.CreatePaymentInput{
		CardNumber:  "2222405343248112",
		ExpiryMonth: 1,
		ExpiryYear:  2026,
		Cvv:         "456",
		Currency:    "USD",
		Amount:      60000,
	})
	require.NoError(t, err)

	assert.Equal(t, "Declined", proj.Status)
	assert.Equal(t, 8112, proj.CardNumberLastFour)
	assert.Equal(t, "USD", proj.Currency)
	assert.Equal(t, int64(60000), proj.Amount)
	assert.Empty(t, proj.AuthorizationCode)

	events := repo.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeDeclined, events[0].Type)
}

func TestCreatePayment_ValidationShortCircuits(t *testing.T) {
	repo := memory.NewRepository()
	bank := authorizingBank("auth-code-1")
	svc := application.NewService(testLogger(), repo, bank, nil)

	in := validInput()
	in.Cvv = "12"
	_, err := svc.CreatePayment(context.Background(), in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.RuleCvv, verr.Rule)
	assert.Zero(t, bank.calls, "bank must not be called for invalid input")
	assert.Zero(t, repo.Len(), "nothing may be persisted for invalid input")
}

func TestCreatePayment_NegativeAmountRejected(t *testing.T) {
	repo := memory.NewRepository()
	bank := authorizingBank("auth-code-1")
	svc := application.NewService(testLogger(), repo, bank, nil)

	in := validInput()
	in.Amount = -1
	_, err := svc.CreatePayment(context.Background(), in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.RuleAmount, verr.Rule)
	assert.Zero(t, bank.calls)
}

func TestCreatePayment_BankUnavailablePersistsNothing(t *testing.T) {
	repo := memory.NewRepository()
	bank := &fakeBank{authorizeFn: func(context.Context, domain.Payment) (application.BankAuthorization, error) {
		return application.BankAuthorization{}, application.ErrBankUnavailable
	}}
	svc := application.NewService(testLogger(), repo, bank, nil)

	_, err := svc.CreatePayment(context.Background(), validInput())
	require.ErrorIs(t, err, application.ErrBankUnavailable)
	assert.Zero(t, repo.Len())
	assert.Empty(t, repo.Events())
}

func TestCreatePayment_CancelledBeforeBankCall(t *testing.T) {
	repo := memory.NewRepository()
	bank := &fakeBank{authorizeFn: func(ctx context.Context, _ domain.Payment) (application.BankAuthorization, error) {
		return application.BankAuthorization{}, ctx.Err()
	}}
	svc := application.NewService(testLogger(), repo, bank, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CreatePayment(ctx, validInput())
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.Len())
}

func TestCreatePayment_StoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("disk on fire")
	repo := &fakeRepo{
		saveFn: func(context.Context, domain.Payment, string, []byte) error { return storeErr },
	}
	svc := application.NewService(testLogger(), repo, authorizingBank("auth-code-1"), nil)

	_, err := svc.CreatePayment(context.Background(), validInput())
	require.ErrorIs(t, err, storeErr)
}

func TestGetPayment_RoundTrip(t *testing.T) {
	repo := memory.NewRepository()
	svc := application.NewService(testLogger(), repo, authorizingBank("auth-code-1"), nil)

	created, err := svc.CreatePayment(context.Background(), validInput())
	require.NoError(t, err)

	fetched, err := svc.GetPayment(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	// Projection is a pure function of the stored payment.
	again, err := svc.GetPayment(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, fetched, again)
}

func TestGetPayment_NotFound(t *testing.T) {
	repo := memory.NewRepository()
	svc := application.NewService(testLogger(), repo, authorizingBank("auth-code-1"), nil)

	_, err := svc.GetPayment(context.Background(), uuid.New())
	require.ErrorIs(t, err, application.ErrNotFound)
}

func TestGetPayment_CacheHitSkipsStore(t *testing.T) {
	cached := application.Projection{ID: uuid.New(), Status: "Authorized", Amount: 100, Currency: "GBP"}
	c := newFakeCache()
	c.entries[cached.ID] = cached

	repo := &fakeRepo{
		getFn: func(context.Context, uuid.UUID) (domain.Payment, error) {
			t.Fatal("store must not be read on a cache hit")
			return domain.Payment{}, nil
		},
	}
	svc := application.NewService(testLogger(), repo, decliningBank(), c)

	proj, err := svc.GetPayment(context.Background(), cached.ID)
	require.NoError(t, err)
	assert.Equal(t, cached, proj)
}

func TestGetPayment_CacheFailureFallsThrough(t *testing.T) {
	repo := memory.NewRepository()
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	c.setErr = errors.New("redis down")
	svc := application.NewService(testLogger(), repo, authorizingBank("auth-code-1"), c)

	created, err := svc.CreatePayment(context.Background(), validInput())
	require.NoError(t, err)

	fetched, err := svc.GetPayment(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestCreatePayment_WritesThroughCache(t *testing.T) {
	repo := memory.NewRepository()
	c := newFakeCache()
	svc := application.NewService(testLogger(), repo, authorizingBank("auth-code-1"), c)

	created, err := svc.CreatePayment(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)
	assert.Equal(t, created, c.entries[created.ID])
}
