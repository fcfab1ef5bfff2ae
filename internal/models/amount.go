package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a non-negative money value. It is written to JSON as a bare
// number so exports read back as numbers in any consumer.
type Amount struct {
	decimal.Decimal
}

// NewAmount converts a float into an Amount.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// ParseAmount parses a decimal string such as "42.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d}, nil
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}
