package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"loan-offers/internal/domain/offer"
	"loan-offers/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dueDate = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

var offerColumns = []string{"id", "balance", "taxes", "due_date"}

func setupOfferRepo(t *testing.T) (context.Context, *OfferRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	return context.Background(), NewOfferRepository(mockPool, logger), mockPool
}

func TestUpsertManyWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupOfferRepo(t)
	defer mockPool.Close()

	offers := []offer.LoanOffer{
		offer.NewLoanOffer(1, decimal.NewFromInt(7), decimal.RequireFromString("0.2"), dueDate),
		offer.NewLoanOffer(5, decimal.NewFromInt(10), decimal.RequireFromString("0.7"), dueDate),
	}

	mockPool.ExpectBegin()
	mockPool.ExpectExec(regexp.QuoteMeta(upsertOfferQuery)).
		WithArgs(int64(1), "7", "0.2", dueDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(regexp.QuoteMeta(upsertOfferQuery)).
		WithArgs(int64(5), "10", "0.7", dueDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	err := repo.UpsertMany(ctx, offers)

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpsertManyRollsBackOnFailure(t *testing.T) {
	ctx, repo, mockPool := setupOfferRepo(t)
	defer mockPool.Close()

	offers := []offer.LoanOffer{
		offer.NewLoanOffer(1, decimal.NewFromInt(7), decimal.RequireFromString("0.2"), dueDate),
		offer.NewLoanOffer(2, decimal.NewFromInt(10), decimal.RequireFromString("0.7"), dueDate),
	}

	mockPool.ExpectBegin()
	mockPool.ExpectExec(regexp.QuoteMeta(upsertOfferQuery)).
		WithArgs(int64(1), "7", "0.2", dueDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(regexp.QuoteMeta(upsertOfferQuery)).
		WithArgs(int64(2), "10", "0.7", dueDate).
		WillReturnError(&pgconn.PgError{Code: "23514", Message: "check constraint violated"})
	mockPool.ExpectRollback()

	err := repo.UpsertMany(ctx, offers)

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpsertManyWhenBeginFails(t *testing.T) {
	ctx, repo, mockPool := setupOfferRepo(t)
	defer mockPool.Close()

	mockPool.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.UpsertMany(ctx, []offer.LoanOffer{offer.NewLoanOffer(1, decimal.NewFromInt(7), decimal.Zero, dueDate)})

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpsertManyWhenCommitFails(t *testing.T) {
	ctx, repo, mockPool := setupOfferRepo(t)
	defer mockPool.Close()

	mockPool.ExpectBegin()
	mockPool.ExpectExec(regexp.QuoteMeta(upsertOfferQuery)).
		WithArgs(int64(1), "7", "0", dueDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err := repo.UpsertMany(ctx, []offer.LoanOffer{offer.NewLoanOffer(1, decimal.NewFromInt(7), decimal.Zero, dueDate)})

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestGetAllOffersWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupOfferRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(selectOffersQuery)).
		WillReturnRows(pgxmock.NewRows(offerColumns).
			AddRow(int64(1), "7.0000", "0.2000", dueDate).
			AddRow(int64(2), "10.0000", "0.7000", dueDate))

	offers, err := repo.GetAll(ctx)

	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, int64(1), offers[0].ID)
	assert.True(t, offers[0].Balance.Equal(decimal.NewFromInt(7)))
	assert.True(t, offers[0].Taxes.Equal(decimal.RequireFromString("0.2")))
	assert.Equal(t, dueDate, offers[0].DueDate)
	assert.True(t, offers[1].TotalOwed().Equal(decimal.RequireFromString("10.7")))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestGetAllOffersWhenEmpty(t *testing.T) {
	ctx, repo, mockPool := setupOfferRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(selectOffersQuery)).
		WillReturnRows(pgxmock.NewRows(offerColumns))

	offers, err := repo.GetAll(ctx)

	require.NoError(t, err)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)
}

func TestGetAllOffersWhenQueryFails(t *testing.T) {
	ctx, repo, mockPool := setupOfferRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(selectOffersQuery)).WillReturnError(errors.New("boom"))

	offers, err := repo.GetAll(ctx)

	assert.Nil(t, offers)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}

func TestGetOfferByIDWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupOfferRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(selectOfferByIDQuery)).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(offerColumns).AddRow(int64(1), "7", "0.2", dueDate))

	got, err := repo.GetByID(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, "7", got.Balance.String())
	assert.Equal(t, "0.2", got.Taxes.String())
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestGetOfferByIDWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupOfferRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(selectOfferByIDQuery)).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(ctx, 42)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestTranslateDBError(t *testing.T) {
	assert.NoError(t, translateDBError(nil, logger))
	assert.ErrorIs(t, translateDBError(pgx.ErrNoRows, logger), apperrors.ErrNotFound)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_phone_number_key"}, logger), apperrors.ErrAlreadyExists)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "40001"}, logger), apperrors.ErrDatabase)
	assert.ErrorIs(t, translateDBError(errors.New("network"), logger), apperrors.ErrDatabase)

	var appErr *apperrors.AppError
	require.ErrorAs(t, translateDBError(&pgconn.PgError{Code: "40001"}, logger), &appErr)
	assert.Equal(t, "DB_ERROR", appErr.Code)
	assert.Equal(t, "db error code 40001", appErr.Message)
}
