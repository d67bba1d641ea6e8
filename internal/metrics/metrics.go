package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the prometheus registry for the ledger engine and the
// notification dispatcher. A nil *Collector is safe to use everywhere.
type Collector struct {
	registry              *prometheus.Registry
	transactionsCompleted *prometheus.CounterVec
	transactionsFailed    *prometheus.CounterVec
	unitDuration          prometheus.Histogram
	notificationsSent     prometheus.Counter
	notificationsFailed   prometheus.Counter
	logger                *slog.Logger
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		transactionsCompleted: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_completed_total",
			Help: "Completed ledger transactions by type",
		}, []string{"type"}),
		transactionsFailed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_failed_total",
			Help: "Failed ledger transactions by type",
		}, []string{"type"}),
		unitDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_unit_of_work_duration_seconds",
			Help:    "Time spent inside an atomic unit of work",
			Buckets: prometheus.DefBuckets,
		}),
		notificationsSent: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "notifications_delivered_total",
			Help: "Webhook notifications delivered",
		}),
		notificationsFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Webhook notifications that exhausted their retries",
		}),
		logger: logger,
	}
}

func (c *Collector) ObserveTransaction(txType string, duration time.Duration, completed bool) {
	if c == nil {
		return
	}
	if completed {
		c.transactionsCompleted.WithLabelValues(txType).Inc()
	} else {
		c.transactionsFailed.WithLabelValues(txType).Inc()
	}
	c.unitDuration.Observe(duration.Seconds())
}

func (c *Collector) ObserveNotification(delivered bool) {
	if c == nil {
		return
	}
	if delivered {
		c.notificationsSent.Inc()
	} else {
		c.notificationsFailed.Inc()
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// StartServer exposes /metrics on its own listener, away from the API port.
func (c *Collector) StartServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		c.logger.Info("starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}
