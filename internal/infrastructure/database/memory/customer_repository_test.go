package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"loan-offers/internal/domain/customer"
	"loan-offers/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRepository_SaveAndFind(t *testing.T) {
	repo := NewCustomerRepository()
	ctx := context.Background()

	cust := customer.NewCustomer(0, "688777334")
	require.NoError(t, repo.Save(ctx, cust))
	assert.Equal(t, int64(1), cust.ID, "Save should allocate an id")

	got, err := repo.FindByPhoneNumber(ctx, "688777334")
	require.NoError(t, err)
	assert.Equal(t, cust, got)

	_, err = repo.FindByPhoneNumber(ctx, "600000000")
	assert.ErrorIs(t, err, customer.ErrNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCustomerRepository_SaveRejectsDuplicatePhone(t *testing.T) {
	repo := NewCustomerRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, customer.NewCustomer(1, "688777333")))
	err := repo.Save(ctx, customer.NewCustomer(2, "688777333"))

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestCustomerRepository_SaveExistingKeepsAssignment(t *testing.T) {
	repo := NewCustomerRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, customer.NewCustomer(7, "688777333")))
	require.NoError(t, repo.AssignOffer(ctx, 7, 1))
	require.NoError(t, repo.Save(ctx, customer.NewCustomer(7, "688777399")))

	_, err := repo.FindByPhoneNumber(ctx, "688777333")
	assert.ErrorIs(t, err, customer.ErrNotFound)

	got, err := repo.FindByPhoneNumber(ctx, "688777399")
	require.NoError(t, err)
	require.NotNil(t, got.LoanOfferID)
	assert.Equal(t, int64(1), *got.LoanOfferID)

	next := customer.NewCustomer(0, "688777400")
	require.NoError(t, repo.Save(ctx, next))
	assert.Equal(t, int64(8), next.ID)
}

func TestCustomerRepository_SaveNil(t *testing.T) {
	err := NewCustomerRepository().Save(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestCustomerRepository_AssignOffer(t *testing.T) {
	repo := NewCustomerRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, customer.NewCustomer(2, "688777334")))

	require.NoError(t, repo.AssignOffer(ctx, 2, 5))

	err := repo.AssignOffer(ctx, 2, 6)
	assert.ErrorIs(t, err, customer.ErrAlreadyAssigned)

	got, err := repo.FindByPhoneNumber(ctx, "688777334")
	require.NoError(t, err)
	assert.Equal(t, int64(5), *got.LoanOfferID)

	err = repo.AssignOffer(ctx, 99, 5)
	assert.ErrorIs(t, err, customer.ErrNotFound)

	count, err := repo.CountWithOffer(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCustomerRepository_FindReturnsCopy(t *testing.T) {
	repo := NewCustomerRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, customer.NewCustomer(2, "688777334")))

	got, err := repo.FindByPhoneNumber(ctx, "688777334")
	require.NoError(t, err)
	require.NoError(t, got.AssignOffer(3))

	again, err := repo.FindByPhoneNumber(ctx, "688777334")
	require.NoError(t, err)
	assert.False(t, again.HasOffer())
}

func TestCustomerRepository_ConcurrentAssignmentHasOneWinner(t *testing.T) {
	repo := NewCustomerRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, customer.NewCustomer(2, "688777334")))

	var (
		wg        sync.WaitGroup
		winners   atomic.Int32
		conflicts atomic.Int32
	)
	for i := int64(1); i <= 20; i++ {
		wg.Add(1)
		go func(offerID int64) {
			defer wg.Done()
			err := repo.AssignOffer(ctx, 2, offerID)
			switch {
			case err == nil:
				winners.Add(1)
			case errors.Is(err, customer.ErrAlreadyAssigned):
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	assert.Equal(t, int32(19), conflicts.Load())
}
