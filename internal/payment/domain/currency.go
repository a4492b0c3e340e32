package domain

import "fmt"

// Currency is the closed set of currencies the gateway accepts.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
)

// ParseCurrency resolves a currency code. Unknown codes fail with a
// validation error rather than defaulting.
func ParseCurrency(code string) (Currency, error) {
	switch c := Currency(code); c {
	case CurrencyUSD, CurrencyGBP, CurrencyEUR:
		return c, nil
	}
	return "", &ValidationError{
		Rule:    RuleCurrency,
		Message: fmt.Sprintf("currency %q is not supported", code),
	}
}

func (c Currency) String() string { return string(c) }
