package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	OffersIngestedTotal   prometheus.Counter
	BatchesTotal          *prometheus.CounterVec
	AssignmentsTotal      *prometheus.CounterVec
	TopUpsTotal           *prometheus.CounterVec
	CatalogOffers         prometheus.Gauge
	CustomersWithOffer    prometheus.Gauge
	CatalogOutstandingSum prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_offers_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		OffersIngestedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loan_offers_ingested_total",
			Help: "Total number of offers committed through batch ingestion.",
		}),
		BatchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_offers_batches_total",
			Help: "Total number of ingestion batches by outcome.",
		}, []string{"outcome"}),
		AssignmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_offers_assignments_total",
			Help: "Total number of offer assignment attempts by outcome.",
		}, []string{"outcome"}),
		TopUpsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_offers_topups_total",
			Help: "Total number of top-up computations by outcome.",
		}, []string{"outcome"}),
		CatalogOffers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loan_offers_catalog_size",
			Help: "Number of offers currently in the catalog.",
		}),
		CustomersWithOffer: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loan_offers_assigned_customers",
			Help: "Number of customers holding an assigned offer.",
		}),
		CatalogOutstandingSum: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loan_offers_catalog_total_owed",
			Help: "Sum of balance plus taxes across the catalog.",
		}),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

// RecordBatch counts one ingestion batch; committed is the number of offers upserted.
func RecordBatch(outcome string, committed int) {
	Business.BatchesTotal.WithLabelValues(outcome).Inc()
	if committed > 0 {
		Business.OffersIngestedTotal.Add(float64(committed))
	}
}

func RecordAssignment(outcome string) {
	Business.AssignmentsTotal.WithLabelValues(outcome).Inc()
}

func RecordTopUp(outcome string) {
	Business.TopUpsTotal.WithLabelValues(outcome).Inc()
}

func SetCatalogStats(offers, assignedCustomers int, totalOwed float64) {
	Business.CatalogOffers.Set(float64(offers))
	Business.CustomersWithOffer.Set(float64(assignedCustomers))
	Business.CatalogOutstandingSum.Set(totalOwed)
}
