package customer

import (
	"context"
	"fmt"

	"loan-offers/internal/pkg/apperrors"
)

var (
	ErrNotFound = fmt.Errorf("%w: customer not found", apperrors.ErrNotFound)

	ErrAlreadyAssigned = fmt.Errorf("%w: customer already has an assigned offer", apperrors.ErrConflict)
)

type Repository interface {
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*Customer, error)

	// AssignOffer links the customer to offerID only if it holds no offer yet.
	// The check and the write happen atomically.
	AssignOffer(ctx context.Context, customerID int64, offerID int64) error

	Save(ctx context.Context, customer *Customer) error
}
