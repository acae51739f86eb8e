package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"loan-offers/internal/domain/offer"
	"loan-offers/internal/infrastructure/monitoring"
	"loan-offers/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	upsertOfferQuery = `
        INSERT INTO loan_offers (id, balance, taxes, due_date)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE
        SET balance = EXCLUDED.balance,
            taxes = EXCLUDED.taxes`

	selectOffersQuery = `SELECT id, balance::text, taxes::text, due_date FROM loan_offers ORDER BY id`

	selectOfferByIDQuery = `SELECT id, balance::text, taxes::text, due_date FROM loan_offers WHERE id = $1`
)

type OfferRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ offer.Repository = (*OfferRepository)(nil)

func NewOfferRepository(db DBPool, logger *slog.Logger) *OfferRepository {
	if db == nil {
		panic("DBPool cannot be nil for OfferRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewOfferRepository, using default stderr handler")
	}
	return &OfferRepository{
		db:     db,
		logger: logger.With("component", "OfferRepository"),
	}
}

// UpsertMany writes every offer inside one transaction. The due date of an
// existing offer is never updated.
func (r *OfferRepository) UpsertMany(ctx context.Context, offers []offer.LoanOffer) error {
	logCtx := r.logger.With(slog.String("operation", "UpsertMany"), slog.Int("count", len(offers)))
	startTime := time.Now()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		monitoring.RecordDBQuery("UpsertOffers", "error", time.Since(startTime))
		return apperrors.WrapDatabaseError(err, "failed to begin transaction")
	}

	for _, o := range offers {
		if _, err := tx.Exec(ctx, upsertOfferQuery, o.ID, o.Balance.String(), o.Taxes.String(), o.DueDate); err != nil {
			logCtx.ErrorContext(ctx, "Failed to upsert offer, rolling back", slog.Int64("offerID", o.ID), slog.Any("error", err))
			r.rollback(ctx, tx)
			monitoring.RecordDBQuery("UpsertOffers", "error", time.Since(startTime))
			return translateDBError(err, logCtx)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logCtx.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		monitoring.RecordDBQuery("UpsertOffers", "error", time.Since(startTime))
		return apperrors.WrapDatabaseError(err, "failed to commit transaction")
	}
	monitoring.RecordDBQuery("UpsertOffers", "success", time.Since(startTime))

	logCtx.InfoContext(ctx, "Offers upserted successfully")
	return nil
}

func (r *OfferRepository) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", err))
	}
}

func (r *OfferRepository) GetAll(ctx context.Context) ([]offer.LoanOffer, error) {
	logCtx := r.logger.With(slog.String("operation", "GetAll"))
	startTime := time.Now()

	rows, err := r.db.Query(ctx, selectOffersQuery)
	if err != nil {
		monitoring.RecordDBQuery("GetAllOffers", "error", time.Since(startTime))
		logCtx.ErrorContext(ctx, "Failed to query offers", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to query offers")
	}
	defer rows.Close()

	offers := make([]offer.LoanOffer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			monitoring.RecordDBQuery("GetAllOffers", "error", time.Since(startTime))
			logCtx.ErrorContext(ctx, "Failed to scan offer row", slog.Any("error", err))
			return nil, apperrors.WrapDatabaseError(err, "failed scanning offer")
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		monitoring.RecordDBQuery("GetAllOffers", "error", time.Since(startTime))
		logCtx.ErrorContext(ctx, "Error iterating offer rows", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "error iterating offers")
	}
	monitoring.RecordDBQuery("GetAllOffers", "success", time.Since(startTime))

	return offers, nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*offer.LoanOffer, error) {
	startTime := time.Now()

	o, err := scanOffer(r.db.QueryRow(ctx, selectOfferByIDQuery, id))
	monitoring.RecordDBQuery("GetOfferByID", queryStatus(err), time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: offer %d", apperrors.ErrNotFound, id)
		}
		r.logger.ErrorContext(ctx, "Failed to get offer", slog.Int64("offerID", id), slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return &o, nil
}

func scanOffer(row pgx.Row) (offer.LoanOffer, error) {
	var (
		o              offer.LoanOffer
		balance, taxes string
	)
	if err := row.Scan(&o.ID, &balance, &taxes, &o.DueDate); err != nil {
		return offer.LoanOffer{}, err
	}

	var err error
	if o.Balance, err = decimal.NewFromString(balance); err != nil {
		return offer.LoanOffer{}, fmt.Errorf("invalid balance %q: %w", balance, err)
	}
	if o.Taxes, err = decimal.NewFromString(taxes); err != nil {
		return offer.LoanOffer{}, fmt.Errorf("invalid taxes %q: %w", taxes, err)
	}
	return o, nil
}
