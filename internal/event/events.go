package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	RoutingKeyOffersIngested = "offers.ingested"
	RoutingKeyOfferAssigned  = "offer.assigned"
	RoutingKeyTopUpComputed  = "loan.topup_computed"
)

type OffersIngestedEvent struct {
	EventID   string    `json:"eventId"`
	OfferIDs  []int64   `json:"offerIds"`
	Timestamp time.Time `json:"timestamp"`
}

type OfferAssignedEvent struct {
	EventID     string    `json:"eventId"`
	CustomerID  int64     `json:"customerId"`
	PhoneNumber string    `json:"phoneNumber"`
	OfferID     int64     `json:"offerId"`
	Timestamp   time.Time `json:"timestamp"`
}

// TopUpComputedEvent reports a repayment quote. Amounts are decimal strings.
type TopUpComputedEvent struct {
	EventID    string    `json:"eventId"`
	CustomerID int64     `json:"customerId"`
	OfferID    int64     `json:"offerId"`
	TopUp      string    `json:"topUp"`
	Repaid     string    `json:"repaid"`
	Timestamp  time.Time `json:"timestamp"`
}

type Publisher interface {
	PublishOffersIngested(ctx context.Context, event OffersIngestedEvent) error
	PublishOfferAssigned(ctx context.Context, event OfferAssignedEvent) error
	PublishTopUpComputed(ctx context.Context, event TopUpComputedEvent) error
}

func NewEventID() string {
	return uuid.NewString()
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) PublishOffersIngested(context.Context, OffersIngestedEvent) error { return nil }

func (NoopPublisher) PublishOfferAssigned(context.Context, OfferAssignedEvent) error { return nil }

func (NoopPublisher) PublishTopUpComputed(context.Context, TopUpComputedEvent) error { return nil }
