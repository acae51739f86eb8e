package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-offers/internal/domain/customer"
	"loan-offers/internal/domain/offer"
	"loan-offers/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// Offers is the starter catalog loaded on an empty store.
func Offers(now time.Time) []offer.LoanOffer {
	return []offer.LoanOffer{
		offer.NewLoanOffer(1, decimal.NewFromInt(7), decimal.RequireFromString("0.2"), now),
		offer.NewLoanOffer(2, decimal.NewFromInt(10), decimal.RequireFromString("0.7"), now),
	}
}

func Customers() []*customer.Customer {
	assigned := int64(1)
	return []*customer.Customer{
		{ID: 1, PhoneNumber: "688777333", LoanOfferID: &assigned},
		{ID: 2, PhoneNumber: "688777334"},
	}
}

// Run loads the starter data. Offers already present are left untouched, so
// it is safe to run on every boot.
func Run(ctx context.Context, offers offer.Repository, customers customer.Repository, now time.Time, logger *slog.Logger) error {
	logger = logger.With(slog.String("component", "seed"))

	var missing []offer.LoanOffer
	for _, o := range Offers(now) {
		_, err := offers.GetByID(ctx, o.ID)
		switch {
		case err == nil:
			logger.DebugContext(ctx, "Seed offer already present", slog.Int64("offerID", o.ID))
		case errors.Is(err, apperrors.ErrNotFound):
			missing = append(missing, o)
		default:
			return fmt.Errorf("failed to check seed offer %d: %w", o.ID, err)
		}
	}
	if len(missing) > 0 {
		if err := offers.UpsertMany(ctx, missing); err != nil {
			return fmt.Errorf("failed to seed offers: %w", err)
		}
	}

	for _, c := range Customers() {
		if err := customers.Save(ctx, c); err != nil {
			if errors.Is(err, apperrors.ErrAlreadyExists) {
				logger.WarnContext(ctx, "Seed customer conflicts with existing data, skipping",
					slog.Int64("customerID", c.ID), slog.Any("error", err))
				continue
			}
			return fmt.Errorf("failed to seed customer %d: %w", c.ID, err)
		}
	}

	logger.InfoContext(ctx, "Seed data loaded", slog.Int("newOffers", len(missing)), slog.Int("customers", len(Customers())))
	return nil
}
