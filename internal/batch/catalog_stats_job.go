package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loan-offers/internal/domain/offer"
	"loan-offers/internal/infrastructure/monitoring"

	"github.com/shopspring/decimal"
)

// AssignmentCounter reports how many customers currently hold an offer.
type AssignmentCounter interface {
	CountWithOffer(ctx context.Context) (int, error)
}

// CatalogStatsJob refreshes the catalog gauges: offer count, customers holding
// an offer, and the sum of balance plus taxes across the catalog.
type CatalogStatsJob struct {
	offerRepo offer.Repository
	customers AssignmentCounter
	logger    *slog.Logger
}

func NewCatalogStatsJob(offerRepo offer.Repository, customers AssignmentCounter, logger *slog.Logger) *CatalogStatsJob {
	if offerRepo == nil || customers == nil || logger == nil {
		panic("CatalogStatsJob dependencies cannot be nil")
	}
	return &CatalogStatsJob{
		offerRepo: offerRepo,
		customers: customers,
		logger:    logger.With("job", "CatalogStats"),
	}
}

// CatalogStats is the snapshot published by one run.
type CatalogStats struct {
	Offers            int
	AssignedCustomers int
	TotalOwed         decimal.Decimal
}

func (j *CatalogStatsJob) Run(ctx context.Context) (CatalogStats, error) {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting catalog stats job.")

	offers, err := j.offerRepo.GetAll(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list offers, aborting job.", slog.Any("error", err))
		return CatalogStats{}, fmt.Errorf("cannot run job, failed to list offers: %w", err)
	}

	assigned, err := j.customers.CountWithOffer(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count assigned customers, aborting job.", slog.Any("error", err))
		return CatalogStats{}, fmt.Errorf("cannot run job, failed to count assigned customers: %w", err)
	}

	totalOwed := decimal.Zero
	for _, o := range offers {
		totalOwed = totalOwed.Add(o.TotalOwed())
	}

	stats := CatalogStats{
		Offers:            len(offers),
		AssignedCustomers: assigned,
		TotalOwed:         totalOwed,
	}
	monitoring.SetCatalogStats(stats.Offers, stats.AssignedCustomers, totalOwed.InexactFloat64())

	j.logger.InfoContext(ctx, "Catalog stats job finished successfully.",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("offers", stats.Offers),
		slog.Int("assigned_customers", stats.AssignedCustomers),
		slog.String("total_owed", totalOwed.String()),
	)
	return stats, nil
}
