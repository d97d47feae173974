// Package core provides the booking domain types and money coercion.
//
// Monetary fields arrive from the host UI as numbers, numeric strings or
// empty strings. Amount keeps the raw text and coerces on read, so a bad
// value never turns into NaN inside an aggregate.
package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a numeric-or-empty-string monetary value.
type Amount string

// NewAmount formats f as an Amount. NaN and ±Inf become the empty amount.
func NewAmount(f float64) Amount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return Amount(decimal.NewFromFloat(f).String())
}

// Decimal coerces the amount. Empty and non-numeric values yield zero.
//
// Examples:
//
//	Amount("1500").Decimal()   -> 1500
//	Amount(" 12.5 ").Decimal() -> 12.5
//	Amount("").Decimal()       -> 0
//	Amount("n/a").Decimal()    -> 0
//	Amount("1e400").Decimal()  -> 0
func (a Amount) Decimal() decimal.Decimal {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	// Values outside float64 range would report as ±Inf.
	if f := d.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return d
}

// Float returns the coerced amount for reporting.
func (a Amount) Float() float64 {
	return a.Decimal().InexactFloat64()
}

// IsZero reports whether the amount coerces to zero.
func (a Amount) IsZero() bool {
	return a.Decimal().IsZero()
}

// UnmarshalJSON accepts a JSON number, a string or null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

// MarshalJSON emits numeric amounts as JSON numbers and anything else as
// a string, preserving the empty-string convention.
func (a Amount) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return []byte(`""`), nil
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return []byte(d.String()), nil
	}
	return json.Marshal(string(a))
}

// Sum adds coerced amounts.
func Sum(amounts ...Amount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal())
	}
	return total
}
