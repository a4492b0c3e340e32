package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validCard = "2222405343248877"
	validCvv  = "123"
)

func validPayment(t *testing.T) Payment {
	t.Helper()
	p, err := NewPayment(validCard, 4, 2025, validCvv, "GBP", 100)
	require.NoError(t, err)
	return p
}

func TestNewPayment_Valid(t *testing.T) {
	p := validPayment(t)

	assert.NotEqual(t, "", p.ID.String())
	assert.Equal(t, validCard, p.CardNumber)
	assert.Equal(t, 8877, p.LastFourCardDigits)
	assert.Equal(t, 4, p.ExpiryMonth)
	assert.Equal(t, 2025, p.ExpiryYear)
	assert.Equal(t, CurrencyGBP, p.Currency)
	assert.Equal(t, int64(100), p.Amount)
	assert.Equal(t, StatusNotSet, p.Status)
	assert.Empty(t, p.AuthorizationCode)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestNewPayment_DistinctIDs(t *testing.T) {
	// No deduplication: identical card data yields distinct payments.
	first := validPayment(t)
	second := validPayment(t)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestNewPayment_Validation(t *testing.T) {
	tests := []struct {
		name        string
		cardNumber  string
		expiryMonth int
		expiryYear  int
		cvv         string
		currency    string
		amount      int64
		wantRule    string
	}{
		{"empty card number", "", 4, 2025, validCvv, "GBP", 100, RuleCardNumber},
		{"card number too short", "1234567890123", 4, 2025, validCvv, "GBP", 100, RuleCardNumber},
		{"card number too long", "12345678901234567890", 4, 2025, validCvv, "GBP", 100, RuleCardNumber},
		{"card number with letters", "22224053432488ab", 4, 2025, validCvv, "GBP", 100, RuleCardNumber},
		{"expiry month zero", validCard, 0, 2025, validCvv, "GBP", 100, RuleExpiryMonth},
		{"expiry month thirteen", validCard, 13, 2025, validCvv, "GBP", 100, RuleExpiryMonth},
		{"expiry year zero", validCard, 4, 0, validCvv, "GBP", 100, RuleExpiryYear},
		{"expiry year five digits", validCard, 4, 10000, validCvv, "GBP", 100, RuleExpiryYear},
		{"cvv too short", validCard, 4, 2025, "12", "GBP", 100, RuleCvv},
		{"cvv too long", validCard, 4, 2025, "12345", "GBP", 100, RuleCvv},
		{"cvv with letters", validCard, 4, 2025, "12a", "GBP", 100, RuleCvv},
		{"empty currency", validCard, 4, 2025, validCvv, "", 100, RuleCurrency},
		{"unknown currency", validCard, 4, 2025, validCvv, "ABC", 100, RuleCurrency},
		{"zero amount", validCard, 4, 2025, validCvv, "GBP", 0, RuleAmount},
		{"negative amount", validCard, 4, 2025, validCvv, "GBP", -1, RuleAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPayment(tt.cardNumber, tt.expiryMonth, tt.expiryYear, tt.cvv, tt.currency, tt.amount)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantRule, verr.Rule)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestNewPayment_FirstViolationWins(t *testing.T) {
	// Every field invalid: the card number rule is checked first.
	_, err := NewPayment("bad", 0, 0, "1", "XXX", -5)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, RuleCardNumber, verr.Rule)
}

func TestPayment_Authorize(t *testing.T) {
	p := validPayment(t)

	authorized, err := p.Authorize("auth-123")
	require.NoError(t, err)
	assert.Equal(t, StatusAuthorized, authorized.Status)
	assert.Equal(t, "auth-123", authorized.AuthorizationCode)

	// The receiver copy is untouched.
	assert.Equal(t, StatusNotSet, p.Status)

	_, err = authorized.Authorize("auth-456")
	assert.True(t, errors.Is(err, ErrAlreadyFinalized))
	_, err = authorized.Decline()
	assert.True(t, errors.Is(err, ErrAlreadyFinalized))
}

func TestPayment_Decline(t *testing.T) {
	p := validPayment(t)

	declined, err := p.Decline()
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, declined.Status)
	assert.Empty(t, declined.AuthorizationCode)

	_, err = declined.Decline()
	assert.True(t, errors.Is(err, ErrAlreadyFinalized))
	_, err = declined.Authorize("auth-123")
	assert.True(t, errors.Is(err, ErrAlreadyFinalized))
}

func TestPayment_MaskedCardNumber(t *testing.T) {
	p := validPayment(t)
	assert.Equal(t, "************8877", p.MaskedCardNumber())
}

func TestLastFourDigits(t *testing.T) {
	assert.Equal(t, 8112, lastFourDigits("2222405343248112"))
	assert.Equal(t, 7, lastFourDigits("22224053430007"))
	assert.Equal(t, 0, lastFourDigits("1234"))
	assert.Equal(t, 0, lastFourDigits(""))
}

func TestParseCurrency(t *testing.T) {
	for _, code := range []string{"USD", "GBP", "EUR"} {
		c, err := ParseCurrency(code)
		require.NoError(t, err)
		assert.Equal(t, code, c.String())
	}

	_, err := ParseCurrency("usd")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, RuleCurrency, verr.Rule)
}

func TestParsePaymentStatus(t *testing.T) {
	for _, s := range []string{"NotSet", "Authorized", "Declined", "Rejected"} {
		ps, err := ParsePaymentStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, ps.String())
	}

	_, err := ParsePaymentStatus("Success")
	assert.Error(t, err)
}
