// Package money holds the fixed-point arithmetic used for currency and stock
// quantities. Nothing in the ledger is ever computed with floats.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of fractional digits kept for currency
	MoneyScale int32 = 2
	// QuantityScale is the number of fractional digits kept for stock quantities
	QuantityScale int32 = 3
)

// Zero is the additive identity, exported for readability at call sites
var Zero = decimal.Zero

// RoundMoney rounds half away from zero to MoneyScale
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// RoundQuantity rounds half away from zero to QuantityScale
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

// LineTotal returns quantity * unit price at money scale
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundMoney(quantity.Mul(unitPrice))
}

// Sum adds all values
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// fitsScale reports whether d has no more than scale fractional digits
func fitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

// ValidateAmount checks a strictly positive currency amount
func ValidateAmount(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%s must be greater than zero", field)
	}
	if !fitsScale(d, MoneyScale) {
		return fmt.Errorf("%s cannot have more than %d decimal places", field, MoneyScale)
	}
	return nil
}

// ValidateNonNegativeAmount checks a currency amount that may be zero
func ValidateNonNegativeAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%s cannot be negative", field)
	}
	if !fitsScale(d, MoneyScale) {
		return fmt.Errorf("%s cannot have more than %d decimal places", field, MoneyScale)
	}
	return nil
}

// ValidateQuantity checks a strictly positive stock quantity
func ValidateQuantity(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%s must be greater than zero", field)
	}
	if !fitsScale(d, QuantityScale) {
		return fmt.Errorf("%s cannot have more than %d decimal places", field, QuantityScale)
	}
	return nil
}

// ValidateNonNegativeQuantity checks a stock quantity that may be zero, e.g. a physical count
func ValidateNonNegativeQuantity(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%s cannot be negative", field)
	}
	if !fitsScale(d, QuantityScale) {
		return fmt.Errorf("%s cannot have more than %d decimal places", field, QuantityScale)
	}
	return nil
}
