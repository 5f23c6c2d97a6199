package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Debit metrics
	DebitsProcessed prometheus.Counter
	DebitsFailed    *prometheus.CounterVec
	DebitDuration   prometheus.Histogram
	DebitAmount     prometheus.Histogram
	DebitRetries    prometheus.Counter

	// Top-up metrics
	TopUpsProcessed prometheus.Counter
	TopUpAmount     prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter

	// Reconciliation metrics
	ReconciliationRuns          prometheus.Counter
	ReconciliationDiscrepancies prometheus.Counter

	// Consumer metrics
	EventsConsumed     *prometheus.CounterVec
	EventsDeadLettered *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Debit metrics
		DebitsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_debits_processed_total",
			Help: "Total number of booking debits applied",
		}),
		DebitsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_debits_failed_total",
				Help: "Total number of failed booking debits by reason",
			},
			[]string{"reason"},
		),
		DebitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletledger_debit_duration_seconds",
			Help:    "Duration of debit operations",
			Buckets: prometheus.DefBuckets,
		}),
		DebitAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletledger_debit_amount",
			Help:    "Debited amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		DebitRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_debit_retries_total",
			Help: "Total number of debit attempts retried after a version conflict",
		}),

		// Top-up metrics
		TopUpsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_topups_processed_total",
			Help: "Total number of wallet top-ups applied",
		}),
		TopUpAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletledger_topup_amount",
			Help:    "Top-up amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Account metrics
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		// Reconciliation metrics
		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_reconciliation_runs_total",
			Help: "Total number of reconciliation runs",
		}),
		ReconciliationDiscrepancies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_reconciliation_discrepancies_total",
			Help: "Total number of accounts whose balance diverged from the transaction log",
		}),

		// Consumer metrics
		EventsConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_events_consumed_total",
				Help: "Total Kafka events consumed by outcome",
			},
			[]string{"outcome"},
		),
		EventsDeadLettered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_events_dead_lettered_total",
				Help: "Total events published to the dead-letter topic by reason",
			},
			[]string{"reason"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
