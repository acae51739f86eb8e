package lending

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"loan-offers/internal/domain/customer"
	"loan-offers/internal/domain/offer"
	"loan-offers/internal/event"
	"loan-offers/internal/infrastructure/monitoring"
	"loan-offers/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const (
	outcomeSuccess          = "success"
	outcomeOfferNotFound    = "offer_not_found"
	outcomeCustomerNotFound = "customer_not_found"
	outcomeConflict         = "conflict"
	outcomeNoContent        = "no_content"
	outcomeInvalid          = "invalid"
	outcomeClamped          = "clamped"
	outcomeError            = "error"
)

type Service interface {
	AssignOffer(ctx context.Context, offerID int64, phoneNumber string) (*OfferAssignment, error)

	// GetAssignedLoan returns apperrors.ErrNoContent when the customer exists
	// but holds no offer.
	GetAssignedLoan(ctx context.Context, phoneNumber string) (*CustomerLoanView, error)

	// ApplyTopUp computes how much of amount repays the customer's offer.
	// Nothing is written back.
	ApplyTopUp(ctx context.Context, phoneNumber string, amount decimal.Decimal) (*Repayment, error)
}

var _ Service = (*lendingService)(nil)

type lendingService struct {
	offers    offer.Repository
	customers customer.Repository
	pub       event.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewLendingService(offers offer.Repository, customers customer.Repository, pub event.Publisher, logger *slog.Logger) Service {
	if offers == nil {
		panic("offer repository cannot be nil")
	}
	if customers == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewLendingService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}

	return &lendingService{
		offers:    offers,
		customers: customers,
		pub:       pub,
		logger:    logger.With(slog.String("component", "lendingService")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *lendingService) AssignOffer(ctx context.Context, offerID int64, phoneNumber string) (*OfferAssignment, error) {
	logger := s.logger.With(slog.Int64("offerID", offerID), slog.String("phoneNumber", phoneNumber))
	logger.InfoContext(ctx, "Attempting to assign offer to customer")

	loanOffer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Offer not found")
			monitoring.RecordAssignment(outcomeOfferNotFound)
			return nil, fmt.Errorf("%w: id %d", ErrOfferNotFound, offerID)
		}
		logger.ErrorContext(ctx, "Repository error finding offer", slog.Any("error", err))
		monitoring.RecordAssignment(outcomeError)
		return nil, fmt.Errorf("failed to find offer %d: %w", offerID, err)
	}

	cust, err := s.customers.FindByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			logger.WarnContext(ctx, "Customer not found, offer cannot be linked")
			monitoring.RecordAssignment(outcomeCustomerNotFound)
			return nil, err
		}
		logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		monitoring.RecordAssignment(outcomeError)
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	if cust.HasOffer() {
		logger.WarnContext(ctx, "Customer already holds an offer", slog.Int64("assignedOfferID", *cust.LoanOfferID))
		monitoring.RecordAssignment(outcomeConflict)
		return nil, customer.ErrAlreadyAssigned
	}

	if err := s.customers.AssignOffer(ctx, cust.ID, loanOffer.ID); err != nil {
		switch {
		case errors.Is(err, customer.ErrAlreadyAssigned):
			logger.WarnContext(ctx, "Customer was assigned an offer concurrently")
			monitoring.RecordAssignment(outcomeConflict)
			return nil, err
		case errors.Is(err, customer.ErrNotFound):
			monitoring.RecordAssignment(outcomeCustomerNotFound)
			return nil, err
		default:
			logger.ErrorContext(ctx, "Repository error linking offer", slog.Any("error", err))
			monitoring.RecordAssignment(outcomeError)
			return nil, fmt.Errorf("failed to assign offer %d: %w", offerID, err)
		}
	}
	monitoring.RecordAssignment(outcomeSuccess)
	logger.InfoContext(ctx, "Offer assigned to customer", slog.Int64("customerID", cust.ID))

	evt := event.OfferAssignedEvent{
		EventID:     event.NewEventID(),
		CustomerID:  cust.ID,
		PhoneNumber: cust.PhoneNumber,
		OfferID:     loanOffer.ID,
		Timestamp:   s.now(),
	}
	if err := s.pub.PublishOfferAssigned(ctx, evt); err != nil {
		logger.ErrorContext(ctx, "Offer assigned, but FAILED to publish event", slog.Any("error", err))
	}

	return &OfferAssignment{
		ID:          loanOffer.ID,
		BalanceLeft: loanOffer.Balance,
		DueDate:     loanOffer.DueDate,
	}, nil
}

func (s *lendingService) GetAssignedLoan(ctx context.Context, phoneNumber string) (*CustomerLoanView, error) {
	_, loanOffer, err := s.assignedOffer(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	return &CustomerLoanView{
		TotalOwed: loanOffer.TotalOwed(),
		DueDate:   loanOffer.DueDate,
		Offer: OfferTerms{
			Balance: loanOffer.Balance,
			Taxes:   loanOffer.Taxes,
		},
	}, nil
}

func (s *lendingService) ApplyTopUp(ctx context.Context, phoneNumber string, amount decimal.Decimal) (*Repayment, error) {
	if !amount.IsPositive() {
		monitoring.RecordTopUp(outcomeInvalid)
		return nil, fmt.Errorf("%w: top-up amount must be greater than zero", apperrors.ErrInvalidArgument)
	}
	if exp := amount.Exponent(); exp < offer.MinExponent || exp > offer.MaxExponent {
		monitoring.RecordTopUp(outcomeInvalid)
		return nil, fmt.Errorf("%w: top-up amount exponent %d out of range", apperrors.ErrInvalidArgument, exp)
	}

	cust, loanOffer, err := s.assignedOffer(ctx, phoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoContent):
			monitoring.RecordTopUp(outcomeNoContent)
		case errors.Is(err, customer.ErrNotFound):
			monitoring.RecordTopUp(outcomeCustomerNotFound)
		default:
			monitoring.RecordTopUp(outcomeError)
		}
		return nil, err
	}

	totalOwed := loanOffer.TotalOwed()
	repaid := RepaidAmount(totalOwed, amount)
	if amount.GreaterThan(totalOwed) {
		monitoring.RecordTopUp(outcomeClamped)
	} else {
		monitoring.RecordTopUp(outcomeSuccess)
	}
	s.logger.InfoContext(ctx, "Top-up computed",
		slog.Int64("customerID", cust.ID),
		slog.Int64("offerID", loanOffer.ID),
		slog.String("topUp", amount.String()),
		slog.String("repaid", repaid.String()))

	evt := event.TopUpComputedEvent{
		EventID:    event.NewEventID(),
		CustomerID: cust.ID,
		OfferID:    loanOffer.ID,
		TopUp:      amount.String(),
		Repaid:     repaid.String(),
		Timestamp:  s.now(),
	}
	if err := s.pub.PublishTopUpComputed(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Top-up computed, but FAILED to publish event", slog.Any("error", err))
	}

	return &Repayment{Repaid: repaid}, nil
}

// assignedOffer resolves the customer behind phoneNumber and the offer it
// holds. A customer without an offer, or whose offer no longer exists, yields
// apperrors.ErrNoContent.
func (s *lendingService) assignedOffer(ctx context.Context, phoneNumber string) (*customer.Customer, *offer.LoanOffer, error) {
	cust, err := s.customers.FindByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found", slog.String("phoneNumber", phoneNumber))
			return nil, nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.String("phoneNumber", phoneNumber), slog.Any("error", err))
		return nil, nil, fmt.Errorf("failed to find customer: %w", err)
	}

	if !cust.HasOffer() {
		return nil, nil, fmt.Errorf("%w: customer %d holds no offer", apperrors.ErrNoContent, cust.ID)
	}

	loanOffer, err := s.offers.GetByID(ctx, *cust.LoanOfferID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer references a missing offer",
				slog.Int64("customerID", cust.ID),
				slog.Int64("offerID", *cust.LoanOfferID))
			return nil, nil, fmt.Errorf("%w: offer %d no longer exists", apperrors.ErrNoContent, *cust.LoanOfferID)
		}
		s.logger.ErrorContext(ctx, "Repository error finding offer", slog.Int64("offerID", *cust.LoanOfferID), slog.Any("error", err))
		return nil, nil, fmt.Errorf("failed to find offer %d: %w", *cust.LoanOfferID, err)
	}

	return cust, loanOffer, nil
}
