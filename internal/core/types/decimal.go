// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits money is rendered with.
const MoneyScale = 2

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Sum adds up values exactly. An empty input yields zero.
func Sum(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// FormatMoney renders an amount in major units with two fractional digits ("1500.00").
// Amounts with significant digits past the second decimal keep them instead of
// being rounded. Only the serialization layer calls this; aggregation stays on Money.
func FormatMoney(m Money) string {
	if !m.Equal(m.Truncate(MoneyScale)) {
		return m.String()
	}
	return m.StringFixed(MoneyScale)
}

// FormatNullMoney renders an optional amount, keeping absence as nil.
func FormatNullMoney(m decimal.NullDecimal) *string {
	if !m.Valid {
		return nil
	}
	s := FormatMoney(m.Decimal)
	return &s
}
