package offer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"loan-offers/internal/event"
	"loan-offers/internal/infrastructure/monitoring"
	"loan-offers/internal/pkg/apperrors"
)

type OfferService interface {
	// IngestOffers validates a raw JSON batch and upserts it. A batch with any
	// invalid record fails with *apperrors.BatchValidationError and commits nothing.
	IngestOffers(ctx context.Context, payload []byte) (int, error)

	ListOffers(ctx context.Context) ([]LoanOffer, error)

	GetOffer(ctx context.Context, id int64) (*LoanOffer, error)
}

var _ OfferService = (*offerService)(nil)

type offerService struct {
	repo   Repository
	pub    event.Publisher
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*offerService)

// WithClock replaces the source of due dates stamped on new offers.
func WithClock(now func() time.Time) Option {
	return func(s *offerService) {
		s.now = now
	}
}

func NewOfferService(repo Repository, pub event.Publisher, logger *slog.Logger, opts ...Option) OfferService {
	if repo == nil {
		panic("offer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewOfferService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}

	s := &offerService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "offerService")),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *offerService) IngestOffers(ctx context.Context, payload []byte) (int, error) {
	s.logger.InfoContext(ctx, "Attempting to ingest offer batch", slog.Int("payloadBytes", len(payload)))

	offers, failures, err := ValidateBatch(payload, s.now())
	if err != nil {
		s.logger.WarnContext(ctx, "Offer batch rejected before record validation", slog.Any("error", err))
		monitoring.RecordBatch("malformed", 0)
		return 0, err
	}

	if len(failures) > 0 {
		batchErr := &apperrors.BatchValidationError{
			Messages: make([]string, 0, len(failures)),
			Markers:  make([]string, 0, len(failures)),
		}
		for _, f := range failures {
			batchErr.Messages = append(batchErr.Messages, f.Message)
			batchErr.Markers = append(batchErr.Markers, f.Marker)
		}
		s.logger.WarnContext(ctx, "Offer batch rejected by record validation",
			slog.Int("failures", len(failures)),
			slog.Int("validRecords", len(offers)))
		monitoring.RecordBatch("rejected", 0)
		return 0, batchErr
	}

	if err := s.repo.UpsertMany(ctx, offers); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to upsert offers", slog.Any("error", err))
		monitoring.RecordBatch("failed", 0)
		return 0, fmt.Errorf("failed to upsert offers: %w", err)
	}
	monitoring.RecordBatch("committed", len(offers))
	s.logger.InfoContext(ctx, "Offer batch committed", slog.Int("count", len(offers)))

	s.publishIngested(ctx, offers)
	return len(offers), nil
}

func (s *offerService) publishIngested(ctx context.Context, offers []LoanOffer) {
	if len(offers) == 0 {
		return
	}
	ids := make([]int64, len(offers))
	for i, o := range offers {
		ids[i] = o.ID
	}
	evt := event.OffersIngestedEvent{
		EventID:   event.NewEventID(),
		OfferIDs:  ids,
		Timestamp: s.now(),
	}
	if err := s.pub.PublishOffersIngested(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Offers committed, but FAILED to publish ingestion event", slog.Any("error", err))
	}
}

func (s *offerService) ListOffers(ctx context.Context) ([]LoanOffer, error) {
	s.logger.InfoContext(ctx, "Attempting to list offers")

	offers, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing offers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved offers", slog.Int("count", len(offers)))
	return offers, nil
}

func (s *offerService) GetOffer(ctx context.Context, id int64) (*LoanOffer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Offer not found", slog.Int64("offerID", id))
			return nil, fmt.Errorf("%w: offer %d", apperrors.ErrNotFound, id)
		}
		s.logger.ErrorContext(ctx, "Repository error finding offer", slog.Int64("offerID", id), slog.Any("error", err))
		return nil, fmt.Errorf("failed to get offer %d: %w", id, err)
	}
	return offer, nil
}
