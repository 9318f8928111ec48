// File: internal/domain/money/money.go

// Package money holds the integer-cents arithmetic shared by carts and
// orders. Amounts never pass through floating point.
package money

// TaxRatePercent is the flat sales tax applied to every subtotal.
const TaxRatePercent = 12

// Tax returns the tax in cents for a subtotal in cents, rounded half-up.
func Tax(subtotalCents int64) int64 {
	return (subtotalCents*TaxRatePercent + 50) / 100
}

// Total returns subtotal plus tax.
func Total(subtotalCents int64) int64 {
	return subtotalCents + Tax(subtotalCents)
}
