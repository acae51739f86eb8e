package offer

import (
	"fmt"

	"loan-offers/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// Bounds on numeric input. Values outside them are rejected before any
// comparison or rescaling takes place.
const (
	MaxNumberLength = 32
	MinExponent     = -28
	MaxExponent     = 28
)

// ParseAmount parses raw as a decimal, rejecting text longer than
// MaxNumberLength or an exponent outside [MinExponent, MaxExponent].
func ParseAmount(raw string) (decimal.Decimal, error) {
	if len(raw) > MaxNumberLength {
		return decimal.Zero, fmt.Errorf("%w: number exceeds %d characters", apperrors.ErrInvalidArgument, MaxNumberLength)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	if exp := value.Exponent(); exp < MinExponent || exp > MaxExponent {
		return decimal.Zero, fmt.Errorf("%w: exponent %d out of range", apperrors.ErrInvalidArgument, exp)
	}
	return value, nil
}
