package offer

import (
	"context"
)

type Repository interface {
	// UpsertMany commits all offers or none of them.
	UpsertMany(ctx context.Context, offers []LoanOffer) error

	GetAll(ctx context.Context) ([]LoanOffer, error)

	GetByID(ctx context.Context, id int64) (*LoanOffer, error)
}
