// Package observability provides Prometheus metrics for token administration runs.
package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "solana_token_admin"

// Metrics holds all Prometheus metrics for one program run. Each instance
// owns its registry so a run can be pushed without process-global state.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec
	RPCCallErrors  *prometheus.CounterVec
	RPCRetries     prometheus.Counter

	// Transaction metrics
	TransactionsSent      prometheus.Counter
	TransactionsConfirmed prometheus.Counter
	TransactionsFailed    *prometheus.CounterVec
	ConfirmationLatency   prometheus.Histogram

	// Operation metrics
	OperationsTotal *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Run metrics
	LastRunTimestamp prometheus.Gauge
	RunDuration      prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "RPC call latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		RPCCallErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_errors_total",
			Help:      "Total number of failed RPC calls",
		}, []string{"method"}),
		RPCRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "retries_total",
			Help:      "Total number of retried HTTP requests",
		}),

		TransactionsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "sent_total",
			Help:      "Total number of transactions submitted",
		}),
		TransactionsConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "confirmed_total",
			Help:      "Total number of transactions confirmed",
		}),
		TransactionsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "failed_total",
			Help:      "Total number of transactions that failed",
		}, []string{"stage"}),
		ConfirmationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "confirmation_duration_seconds",
			Help:      "Time from submission to confirmation in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}),

		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "operations",
			Name:      "total",
			Help:      "Total number of token administration operations by kind and status",
		}, []string{"kind", "status"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "last_timestamp_seconds",
			Help:      "Unix timestamp of the last program run",
		}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of the last program run",
		}),
	}
}

// RecordRPCCall records RPC call latency and, on failure, an error.
func (m *Metrics) RecordRPCCall(method string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.RPCCallLatency.WithLabelValues(method).Observe(d.Seconds())
	if err != nil {
		m.RPCCallErrors.WithLabelValues(method).Inc()
	}
}

// RecordRetry increments the HTTP retry counter.
func (m *Metrics) RecordRetry() {
	if m == nil {
		return
	}
	m.RPCRetries.Inc()
}

// RecordTxSent increments the submitted transaction counter.
func (m *Metrics) RecordTxSent() {
	if m == nil {
		return
	}
	m.TransactionsSent.Inc()
}

// RecordTxConfirmed records a confirmation and its latency.
func (m *Metrics) RecordTxConfirmed(d time.Duration) {
	if m == nil {
		return
	}
	m.TransactionsConfirmed.Inc()
	m.ConfirmationLatency.Observe(d.Seconds())
}

// RecordTxFailed records a transaction failure at the given stage
// (build, send, confirm).
func (m *Metrics) RecordTxFailed(stage string) {
	if m == nil {
		return
	}
	m.TransactionsFailed.WithLabelValues(stage).Inc()
}

// RecordOperation records the outcome of a token administration operation.
func (m *Metrics) RecordOperation(kind, status string) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(kind, status).Inc()
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(d.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordRun stamps the run end time and duration.
func (m *Metrics) RecordRun(started, finished time.Time) {
	if m == nil {
		return
	}
	m.LastRunTimestamp.Set(float64(finished.Unix()))
	m.RunDuration.Set(finished.Sub(started).Seconds())
}

// Push sends all metrics to a Prometheus Pushgateway, replacing the
// previous group for job and grouping labels.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string, grouping map[string]string) error {
	if m == nil || gatewayURL == "" {
		return nil
	}

	pusher := push.New(gatewayURL, job).Gatherer(m.Registry)
	for k, v := range grouping {
		pusher = pusher.Grouping(k, v)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
