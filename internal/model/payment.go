// Package model defines domain types for fundburn records and metrics.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one donation transaction. It is immutable once loaded.
type Payment struct {
	PaymentID         string
	DonorID           string
	PledgeID          string // empty when the payment has no pledge
	Date              time.Time
	OriginalAmount    decimal.NullDecimal
	OriginalCurrency  string
	USDAmount         decimal.NullDecimal // absent when the rate lookup failed
	PaymentPlatform   string
	Portfolio         string
	Counterfactuality *float64
}

// MoneyMoved returns the USD amount credited to this payment, optionally
// weighted by its counterfactuality. The second result is false when the
// amount is absent and must be left out of sums.
func (p Payment) MoneyMoved(counterfactual bool) (decimal.Decimal, bool) {
	if !p.USDAmount.Valid {
		return decimal.Zero, false
	}
	if !counterfactual {
		return p.USDAmount.Decimal, true
	}
	if p.Counterfactuality == nil {
		return decimal.Zero, false
	}
	return p.USDAmount.Decimal.Mul(decimal.NewFromFloat(*p.Counterfactuality)), true
}
