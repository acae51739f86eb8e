package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"loan-offers/internal/domain/customer"
	"loan-offers/internal/infrastructure/monitoring"
	"loan-offers/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const (
	selectCustomerByPhoneQuery = `SELECT id, phone_number, loan_offer_id FROM customers WHERE phone_number = $1`

	assignOfferQuery = `UPDATE customers SET loan_offer_id = $1 WHERE id = $2 AND loan_offer_id IS NULL`

	customerExistsQuery = `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`

	insertCustomerQuery = `
        INSERT INTO customers (phone_number, loan_offer_id)
        VALUES ($1, $2)
        RETURNING id`

	upsertCustomerQuery = `
        INSERT INTO customers (id, phone_number, loan_offer_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE
        SET phone_number = EXCLUDED.phone_number`

	// Explicit ids bypass the BIGSERIAL default, so the sequence is moved past them.
	syncCustomerIDSequenceQuery = `SELECT setval(pg_get_serial_sequence('customers', 'id'), (SELECT MAX(id) FROM customers))`

	countCustomersWithOfferQuery = `SELECT COUNT(*) FROM customers WHERE loan_offer_id IS NOT NULL`
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*customer.Customer, error) {
	startTime := time.Now()

	var cust customer.Customer
	err := r.db.QueryRow(ctx, selectCustomerByPhoneQuery, phoneNumber).Scan(
		&cust.ID,
		&cust.PhoneNumber,
		&cust.LoanOfferID,
	)
	monitoring.RecordDBQuery("FindCustomerByPhone", queryStatus(err), time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find customer by phone number", slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return &cust, nil
}

// AssignOffer relies on the conditional update to serialize concurrent
// assignments. When nothing is updated a second query tells a missing
// customer apart from one that already holds an offer.
func (r *CustomerRepository) AssignOffer(ctx context.Context, customerID int64, offerID int64) error {
	logCtx := r.logger.With(slog.Int64("customerID", customerID), slog.Int64("offerID", offerID))
	startTime := time.Now()

	tag, err := r.db.Exec(ctx, assignOfferQuery, offerID, customerID)
	monitoring.RecordDBQuery("AssignOffer", queryStatus(err), time.Since(startTime))
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to assign offer", slog.Any("error", err))
		return translateDBError(err, logCtx)
	}
	if tag.RowsAffected() == 1 {
		logCtx.InfoContext(ctx, "Offer assigned to customer")
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, customerExistsQuery, customerID).Scan(&exists); err != nil {
		logCtx.ErrorContext(ctx, "Failed to check customer existence", slog.Any("error", err))
		return translateDBError(err, logCtx)
	}
	if !exists {
		return customer.ErrNotFound
	}
	logCtx.WarnContext(ctx, "Customer already holds an offer")
	return customer.ErrAlreadyAssigned
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	startTime := time.Now()

	var err error
	if cust.ID == 0 {
		err = r.db.QueryRow(ctx, insertCustomerQuery, cust.PhoneNumber, cust.LoanOfferID).Scan(&cust.ID)
	} else {
		_, err = r.db.Exec(ctx, upsertCustomerQuery, cust.ID, cust.PhoneNumber, cust.LoanOfferID)
		if err == nil {
			_, err = r.db.Exec(ctx, syncCustomerIDSequenceQuery)
		}
	}
	monitoring.RecordDBQuery("SaveCustomer", queryStatus(err), time.Since(startTime))

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to save customer due to unique constraint violation", slog.String("phoneNumber", cust.PhoneNumber))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to save customer", slog.Any("error", err))
		return translatedErr
	}

	r.logger.InfoContext(ctx, "Customer saved successfully", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) CountWithOffer(ctx context.Context) (int, error) {
	startTime := time.Now()

	var count int
	err := r.db.QueryRow(ctx, countCustomersWithOfferQuery).Scan(&count)
	monitoring.RecordDBQuery("CountCustomersWithOffer", queryStatus(err), time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers with offer", slog.Any("error", err))
		return 0, apperrors.WrapDatabaseError(err, "failed to count customers")
	}
	return count, nil
}
