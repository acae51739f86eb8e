package lending

import (
	"fmt"
	"time"

	"loan-offers/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

var ErrOfferNotFound = fmt.Errorf("%w: loan offer not found", apperrors.ErrNotFound)

// OfferAssignment is returned when an offer is linked to a customer. Taxes are
// not part of it.
type OfferAssignment struct {
	ID          int64
	BalanceLeft decimal.Decimal
	DueDate     time.Time
}

type OfferTerms struct {
	Balance decimal.Decimal
	Taxes   decimal.Decimal
}

type CustomerLoanView struct {
	TotalOwed decimal.Decimal
	DueDate   time.Time
	Offer     OfferTerms
}

type Repayment struct {
	Repaid decimal.Decimal
}

// RepaidAmount is the part of topUp that goes towards totalOwed. Any surplus
// is not tracked.
func RepaidAmount(totalOwed, topUp decimal.Decimal) decimal.Decimal {
	if topUp.GreaterThan(totalOwed) {
		return totalOwed
	}
	return topUp
}
