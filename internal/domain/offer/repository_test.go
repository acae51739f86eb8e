package offer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) UpsertMany(ctx context.Context, offers []LoanOffer) error {
	ret := _m.Called(ctx, offers)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, []LoanOffer) error); ok {
		r0 = rf(ctx, offers)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockRepository) GetAll(ctx context.Context) ([]LoanOffer, error) {
	ret := _m.Called(ctx)

	var r0 []LoanOffer
	if rf, ok := ret.Get(0).(func(context.Context) []LoanOffer); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]LoanOffer)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) GetByID(ctx context.Context, id int64) (*LoanOffer, error) {
	ret := _m.Called(ctx, id)

	var r0 *LoanOffer
	if rf, ok := ret.Get(0).(func(context.Context, int64) *LoanOffer); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*LoanOffer)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
