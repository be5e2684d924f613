// Package tax holds the pure policies of the ledger: how a gross income is
// split between wallet and tax vault, and when the vault may be released.
package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultRate is the share of every deposit withheld into the tax vault.
var DefaultRate = decimal.RequireFromString("0.15")

// AmountScale and RateScale bound the fractional digits of the inputs so
// that every product fits the 4 fractional digits of the stored columns.
const (
	AmountScale = 2
	RateScale   = 2
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidRate   = errors.New("tax rate must be between 0 and 1")
)

// hasScale reports whether d has at most places fractional digits,
// ignoring trailing zeros.
func hasScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// Split is the result of dividing a gross amount.
type Split struct {
	Tax decimal.Decimal
	Net decimal.Decimal
}

// Splitter computes tax/net splits at a fixed rate.
type Splitter struct {
	rate decimal.Decimal
}

// ValidateRate checks that rate lies strictly between 0 and 1 with at most
// RateScale fractional digits.
func ValidateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}

	if !hasScale(rate, RateScale) {
		return fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidRate, rate, RateScale)
	}

	return nil
}

func NewSplitter(rate decimal.Decimal) (*Splitter, error) {
	if err := ValidateRate(rate); err != nil {
		return nil, err
	}

	return &Splitter{rate: rate}, nil
}

// Rate returns the withholding rate.
func (s *Splitter) Rate() decimal.Decimal {
	return s.rate
}

// Split divides amount into its tax and net parts. Multiplication of two
// decimals is exact, and Net is derived by subtraction, so Tax+Net always
// equals amount with no rounding step, in memory and once stored.
func (s *Splitter) Split(amount decimal.Decimal) (Split, error) {
	if !amount.IsPositive() {
		return Split{}, ErrInvalidAmount
	}

	if !hasScale(amount, AmountScale) {
		return Split{}, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, amount, AmountScale)
	}

	taxAmount := amount.Mul(s.rate)

	return Split{
		Tax: taxAmount,
		Net: amount.Sub(taxAmount),
	}, nil
}
