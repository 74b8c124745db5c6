// Package core holds the salon domain model: customers, the service catalog,
// appointments with their line items, and the pure computations over them.
//
// Money is always carried as integer minor units (cents). Nothing in this
// package converts through floating point.
package core

import (
	"encoding/json"
	"fmt"
)

// Cents is a shorthand constructor.
func Cents(c int64) Money {
	return Money{Cents: c}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Times multiplies by a quantity.
func (m Money) Times(qty int) Money {
	return Money{Cents: m.Cents * int64(qty)}
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Decimal renders the amount with two decimals, e.g. 11000 -> "110.00".
// Used where a human-facing ledger wants a plain number.
func (m Money) Decimal() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Cents)
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &m.Cents)
}
