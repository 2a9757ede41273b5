package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places carried by every ledger amount.
const Scale = 2

// MinAmount is the smallest amount a transaction may carry.
var MinAmount = decimal.New(1, -Scale)

var (
	// ErrAmountNotPositive is returned for zero or negative amounts.
	ErrAmountNotPositive = fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	// ErrAmountTooSmall is returned for amounts below MinAmount.
	ErrAmountTooSmall = fmt.Errorf("%w: amount must be at least %s", domain.ErrValidation, MinAmount.StringFixed(Scale))
	// ErrTooManyDecimals is returned for amounts with more than two decimal places.
	ErrTooManyDecimals = fmt.Errorf("%w: amount must have at most %d decimal places", domain.ErrValidation, Scale)
	// ErrInvalidAmount is returned when an amount cannot be parsed.
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", domain.ErrValidation)
)

// ValidateAmount checks that d is usable as a transaction amount:
// positive, at least MinAmount and with no more than Scale decimal places.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrAmountNotPositive
	}
	if d.LessThan(MinAmount) {
		return ErrAmountTooSmall
	}
	if !d.Equal(d.Truncate(Scale)) {
		return ErrTooManyDecimals
	}
	return nil
}

// Parse reads a decimal amount from its string form and validates it.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errors.Join(ErrInvalidAmount, err)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// Format renders d with exactly Scale decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
