package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"loan-offers/internal/api/handler/dto"
	"loan-offers/internal/domain/customer"
	"loan-offers/internal/domain/lending"
	"loan-offers/internal/domain/offer"
	"loan-offers/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

const (
	formFieldOfferID = "ID"
	formFieldTopUp   = "TopUp"
)

type LoanHandler struct {
	service lending.Service
	logger  *slog.Logger
}

func NewLoanHandler(s lending.Service, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func getPhoneNumberFromURL(r *http.Request) (string, error) {
	msisdn := chi.URLParam(r, "msisdn")
	if err := customer.ValidatePhoneNumber(msisdn); err != nil {
		return "", errInvalidPhoneNumber
	}
	return msisdn, nil
}

// AssignOffer handles linking an offer to a customer.
//
// @Summary Assign an offer to a customer
// @Tags Loans
// @Accept x-www-form-urlencoded
// @Produce json
// @Param msisdn path string true "Customer phone number"
// @Param ID formData integer true "Offer ID"
// @Success 200 {object} dto.OfferAssignmentResponse "Offer assigned"
// @Failure 400 {object} dto.ErrorResponse "Missing or unknown offer, or invalid phone number"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Customer already holds an offer"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{msisdn}/loans [post]
func (h *LoanHandler) AssignOffer(w http.ResponseWriter, r *http.Request) {
	rawID := r.FormValue(formFieldOfferID)
	if rawID == "" {
		respondError(w, apperrors.NewValidationError(formFieldOfferID, "Offer ID required."))
		return
	}

	msisdn, err := getPhoneNumberFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	offerID, err := strconv.ParseInt(rawID, 10, 32)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid offer ID in form", "value", rawID)
		respondError(w, apperrors.NewValidationError(formFieldOfferID, "Offer ID must be an integer."))
		return
	}

	assignment, err := h.service.AssignOffer(r.Context(), offerID, msisdn)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewOfferAssignmentResponse(assignment))
}

// GetAssignedLoan handles fetching the loan a customer holds.
//
// @Summary Get a customer's loan
// @Tags Loans
// @Produce json
// @Param msisdn path string true "Customer phone number"
// @Success 200 {object} dto.CustomerLoanResponse "Loan details; balanceLeft is balance plus taxes"
// @Success 204 "Customer holds no offer"
// @Failure 400 {object} dto.ErrorResponse "Invalid phone number"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{msisdn}/loans [get]
func (h *LoanHandler) GetAssignedLoan(w http.ResponseWriter, r *http.Request) {
	msisdn, err := getPhoneNumberFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	view, err := h.service.GetAssignedLoan(r.Context(), msisdn)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerLoanResponse(view))
}

// ApplyTopUp handles computing a repayment for a customer's loan.
//
// @Summary Apply a top-up to a customer's loan
// @Description Returns how much of the top-up repays the loan. Amounts above balance plus taxes are clamped. No balance is changed.
// @Tags Loans
// @Accept x-www-form-urlencoded
// @Produce json
// @Param msisdn path string true "Customer phone number"
// @Param TopUp formData number true "Top-up amount"
// @Success 200 {object} dto.RepaymentResponse "Repaid amount"
// @Success 204 "Customer holds no offer"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid amount, or invalid phone number"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{msisdn}/loans [put]
func (h *LoanHandler) ApplyTopUp(w http.ResponseWriter, r *http.Request) {
	rawTopUp := r.FormValue(formFieldTopUp)
	if rawTopUp == "" {
		respondError(w, apperrors.NewValidationError(formFieldTopUp, "Top Up amount required."))
		return
	}

	msisdn, err := getPhoneNumberFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	amount, err := offer.ParseAmount(rawTopUp)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid top-up amount in form", "value", rawTopUp)
		respondError(w, apperrors.NewValidationError(formFieldTopUp, "Top Up amount must be a decimal number."))
		return
	}
	if !amount.IsPositive() {
		respondError(w, apperrors.NewValidationError(formFieldTopUp, "Top Up amount must be greater than 0."))
		return
	}

	repayment, err := h.service.ApplyTopUp(r.Context(), msisdn, amount)
	if err != nil {
		respondError(w, fmt.Errorf("top-up for %s: %w", msisdn, err))
		return
	}

	respondJSON(w, http.StatusOK, dto.NewRepaymentResponse(repayment))
}
