package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"loan-offers/internal/domain/offer"
	"loan-offers/internal/pkg/apperrors"
)

type OfferRepository struct {
	mu     sync.RWMutex
	offers map[int64]offer.LoanOffer
}

var _ offer.Repository = (*OfferRepository)(nil)

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{offers: make(map[int64]offer.LoanOffer)}
}

func (r *OfferRepository) UpsertMany(ctx context.Context, offers []offer.LoanOffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, incoming := range offers {
		if existing, ok := r.offers[incoming.ID]; ok {
			existing.ApplyTerms(incoming)
			r.offers[incoming.ID] = existing
			continue
		}
		r.offers[incoming.ID] = incoming
	}
	return nil
}

// GetAll returns the catalog ordered by id.
func (r *OfferRepository) GetAll(ctx context.Context) ([]offer.LoanOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	offers := make([]offer.LoanOffer, 0, len(r.offers))
	for _, o := range r.offers {
		offers = append(offers, o)
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID < offers[j].ID })
	return offers, nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*offer.LoanOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.offers[id]
	if !ok {
		return nil, fmt.Errorf("%w: offer %d", apperrors.ErrNotFound, id)
	}
	return &o, nil
}
