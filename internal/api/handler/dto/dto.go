package dto

import (
	"encoding/json"
	"time"

	"loan-offers/internal/domain/lending"
	"loan-offers/internal/domain/offer"

	"github.com/shopspring/decimal"
)

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ValidationErrorsResponse lists every rule a rejected offer batch broke.
type ValidationErrorsResponse struct {
	Errors []string `json:"errors"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Money renders a decimal as a bare JSON number without losing precision.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

type OfferResponse struct {
	ID      int64       `json:"id"`
	Balance json.Number `json:"balance" swaggertype:"number"`
	Taxes   json.Number `json:"taxes" swaggertype:"number"`
	DueDate time.Time   `json:"dueDate"`
}

func NewOfferResponse(o offer.LoanOffer) OfferResponse {
	return OfferResponse{
		ID:      o.ID,
		Balance: Money(o.Balance),
		Taxes:   Money(o.Taxes),
		DueDate: o.DueDate,
	}
}

func NewOfferListResponse(offers []offer.LoanOffer) []OfferResponse {
	resp := make([]OfferResponse, len(offers))
	for i, o := range offers {
		resp[i] = NewOfferResponse(o)
	}
	return resp
}

type IngestOffersResponse struct {
	Ingested int `json:"ingested"`
}

type OfferAssignmentResponse struct {
	ID          int64       `json:"id"`
	BalanceLeft json.Number `json:"balanceLeft" swaggertype:"number"`
	DueDate     time.Time   `json:"dueDate"`
}

func NewOfferAssignmentResponse(a *lending.OfferAssignment) OfferAssignmentResponse {
	return OfferAssignmentResponse{
		ID:          a.ID,
		BalanceLeft: Money(a.BalanceLeft),
		DueDate:     a.DueDate,
	}
}

type OfferTermsResponse struct {
	Balance json.Number `json:"balance" swaggertype:"number"`
	Taxes   json.Number `json:"taxes" swaggertype:"number"`
}

// CustomerLoanResponse carries the total owed under balanceLeft.
type CustomerLoanResponse struct {
	BalanceLeft json.Number        `json:"balanceLeft" swaggertype:"number"`
	DueDate     time.Time          `json:"dueDate"`
	Offer       OfferTermsResponse `json:"offer"`
}

func NewCustomerLoanResponse(v *lending.CustomerLoanView) CustomerLoanResponse {
	return CustomerLoanResponse{
		BalanceLeft: Money(v.TotalOwed),
		DueDate:     v.DueDate,
		Offer: OfferTermsResponse{
			Balance: Money(v.Offer.Balance),
			Taxes:   Money(v.Offer.Taxes),
		},
	}
}

type RepaymentResponse struct {
	Repaid json.Number `json:"repaid" swaggertype:"number"`
}

func NewRepaymentResponse(r *lending.Repayment) RepaymentResponse {
	return RepaymentResponse{Repaid: Money(r.Repaid)}
}
