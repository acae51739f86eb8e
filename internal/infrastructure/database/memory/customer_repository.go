package memory

import (
	"context"
	"fmt"
	"sync"

	"loan-offers/internal/domain/customer"
	"loan-offers/internal/pkg/apperrors"
)

type CustomerRepository struct {
	mu      sync.RWMutex
	byID    map[int64]*customer.Customer
	byPhone map[string]int64
	nextID  int64
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		byID:    make(map[int64]*customer.Customer),
		byPhone: make(map[string]int64),
		nextID:  1,
	}
}

func (r *CustomerRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPhone[phoneNumber]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *CustomerRepository) AssignOffer(ctx context.Context, customerID int64, offerID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cust, ok := r.byID[customerID]
	if !ok {
		return customer.ErrNotFound
	}
	return cust.AssignOffer(offerID)
}

// Save inserts cust, allocating an id when it has none. Saving an existing id
// replaces its phone number but keeps any assigned offer.
func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ownerID, taken := r.byPhone[cust.PhoneNumber]; taken && ownerID != cust.ID {
		return fmt.Errorf("%w: phone number %s", apperrors.ErrAlreadyExists, cust.PhoneNumber)
	}

	if cust.ID == 0 {
		cust.ID = r.nextID
	}
	if cust.ID >= r.nextID {
		r.nextID = cust.ID + 1
	}

	if existing, ok := r.byID[cust.ID]; ok {
		delete(r.byPhone, existing.PhoneNumber)
		existing.PhoneNumber = cust.PhoneNumber
		r.byPhone[cust.PhoneNumber] = cust.ID
		return nil
	}

	r.byID[cust.ID] = clone(cust)
	r.byPhone[cust.PhoneNumber] = cust.ID
	return nil
}

// CountWithOffer reports how many customers currently hold an offer.
func (r *CustomerRepository) CountWithOffer(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, c := range r.byID {
		if c.HasOffer() {
			count++
		}
	}
	return count, nil
}

func clone(c *customer.Customer) *customer.Customer {
	cp := *c
	if c.LoanOfferID != nil {
		id := *c.LoanOfferID
		cp.LoanOfferID = &id
	}
	return &cp
}
