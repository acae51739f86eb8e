package offer

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanOffer struct {
	ID      int64           `json:"id"`
	Balance decimal.Decimal `json:"balance"`
	Taxes   decimal.Decimal `json:"taxes"`
	DueDate time.Time       `json:"dueDate"`
}

func NewLoanOffer(id int64, balance, taxes decimal.Decimal, dueDate time.Time) LoanOffer {
	return LoanOffer{
		ID:      id,
		Balance: balance,
		Taxes:   taxes,
		DueDate: dueDate,
	}
}

// TotalOwed is balance plus taxes, the ceiling a top-up is clamped against.
func (o LoanOffer) TotalOwed() decimal.Decimal {
	return o.Balance.Add(o.Taxes)
}

// ApplyTerms overwrites the money terms of o with those of incoming and
// leaves the due date as it was first stamped.
func (o *LoanOffer) ApplyTerms(incoming LoanOffer) {
	o.Balance = incoming.Balance
	o.Taxes = incoming.Taxes
}
