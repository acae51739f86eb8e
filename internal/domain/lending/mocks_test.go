package lending

import (
	"context"

	"loan-offers/internal/domain/customer"
	"loan-offers/internal/domain/offer"
	"loan-offers/internal/event"

	"github.com/stretchr/testify/mock"
)

type MockOfferRepository struct {
	mock.Mock
}

func (_m *MockOfferRepository) UpsertMany(ctx context.Context, offers []offer.LoanOffer) error {
	return _m.Called(ctx, offers).Error(0)
}

func (_m *MockOfferRepository) GetAll(ctx context.Context) ([]offer.LoanOffer, error) {
	ret := _m.Called(ctx)

	var r0 []offer.LoanOffer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]offer.LoanOffer)
	}
	return r0, ret.Error(1)
}

func (_m *MockOfferRepository) GetByID(ctx context.Context, id int64) (*offer.LoanOffer, error) {
	ret := _m.Called(ctx, id)

	var r0 *offer.LoanOffer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*offer.LoanOffer)
	}
	return r0, ret.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*customer.Customer, error) {
	ret := _m.Called(ctx, phoneNumber)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) AssignOffer(ctx context.Context, customerID int64, offerID int64) error {
	return _m.Called(ctx, customerID, offerID).Error(0)
}

func (_m *MockCustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	return _m.Called(ctx, cust).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (_m *MockPublisher) PublishOffersIngested(ctx context.Context, evt event.OffersIngestedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishOfferAssigned(ctx context.Context, evt event.OfferAssignedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishTopUpComputed(ctx context.Context, evt event.TopUpComputedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}
