// Package money provides a fixed-precision monetary value with value semantics.
package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Precision is the number of decimal places all public amounts are rounded to.
// Rounding is half away from zero so chained percentage applications do not drift.
const Precision = 2

// Money is an immutable monetary amount with a currency tag.
// All operations return new values; a Money is never mutated in place.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money from a decimal amount
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// NewFromFloat creates a Money from a float amount
func NewFromFloat(amount float64, currency Currency) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: currency}
}

// NewFromString creates a Money from a decimal string
func NewFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Money{amount: d, currency: currency}, nil
}

// Zero returns a zero amount in the given currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the underlying decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency tag
func (m Money) Currency() Currency {
	return m.currency
}

// Add returns m + other
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}
}

// Sub returns m - other
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}
}

// Neg returns -m
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Mul returns m scaled by factor, rounded to currency precision
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor).Round(Precision), currency: m.currency}
}

// ApplyPercent returns percent% of m, rounded to currency precision.
// A 10% application on 100.00 yields 10.00.
func (m Money) ApplyPercent(percent decimal.Decimal) Money {
	factor := percent.Div(decimal.NewFromInt(100))
	return Money{amount: m.amount.Mul(factor).Round(Precision), currency: m.currency}
}

// Round returns m rounded to currency precision (half away from zero)
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(Precision), currency: m.currency}
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// LessThan reports whether m < other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// Equal reports whether two amounts are numerically equal in the same currency
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String formats the amount with its currency code
func (m Money) String() string {
	return m.amount.StringFixed(Precision) + " " + string(m.currency)
}

// moneyJSON is the wire shape of a Money value
type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.StringFixed(Precision),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", raw.Amount, err)
	}
	m.amount = d
	m.currency = raw.Currency
	return nil
}
