package seed

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"loan-offers/internal/domain/offer"
	"loan-offers/internal/infrastructure/database/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

func TestRun_LoadsStarterData(t *testing.T) {
	offers := memory.NewOfferRepository()
	customers := memory.NewCustomerRepository()
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, Run(ctx, offers, customers, now, logger))

	all, err := offers.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "7", all[0].Balance.String())
	assert.Equal(t, "0.2", all[0].Taxes.String())
	assert.Equal(t, "10", all[1].Balance.String())
	assert.Equal(t, "0.7", all[1].Taxes.String())

	assigned, err := customers.FindByPhoneNumber(ctx, "688777333")
	require.NoError(t, err)
	require.NotNil(t, assigned.LoanOfferID)
	assert.Equal(t, int64(1), *assigned.LoanOfferID)

	free, err := customers.FindByPhoneNumber(ctx, "688777334")
	require.NoError(t, err)
	assert.False(t, free.HasOffer())
}

func TestRun_KeepsExistingOffers(t *testing.T) {
	offers := memory.NewOfferRepository()
	customers := memory.NewCustomerRepository()
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	custom := offer.NewLoanOffer(1, decimal.NewFromInt(50), decimal.NewFromInt(5), now.Add(-time.Hour))
	require.NoError(t, offers.UpsertMany(ctx, []offer.LoanOffer{custom}))

	require.NoError(t, Run(ctx, offers, customers, now, logger))
	require.NoError(t, Run(ctx, offers, customers, now, logger))

	got, err := offers.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "50", got.Balance.String())
	assert.Equal(t, now.Add(-time.Hour), got.DueDate)

	count, err := customers.CountWithOffer(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
