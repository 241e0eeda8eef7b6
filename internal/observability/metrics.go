// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Token outcome labels.
const (
	OutcomeWritten = "written"
	OutcomeNoPool  = "no_pool"
	OutcomeFailed  = "failed"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Market data metrics
	FetchRequests *prometheus.CounterVec
	FetchLatency  prometheus.Histogram

	// Snapshot metrics
	TokensProcessed *prometheus.CounterVec
	RecordsWritten  *prometheus.CounterVec
	SinkErrors      *prometheus.CounterVec
	OverallScore    prometheus.Histogram

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "solana_token_risk"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		FetchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dexscreener",
			Name:      "requests_total",
			Help:      "Total number of pool lookups by HTTP status",
		}, []string{"status"}),
		FetchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dexscreener",
			Name:      "request_latency_seconds",
			Help:      "Pool lookup latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		TokensProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "tokens_processed_total",
			Help:      "Total number of tokens processed by outcome",
		}, []string{"outcome"}),
		RecordsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "records_written_total",
			Help:      "Total number of risk records written by sink",
		}, []string{"sink"}),
		SinkErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "sink_errors_total",
			Help:      "Total number of failed sink writes",
		}, []string{"sink"}),
		OverallScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "overall_score",
			Help:      "Distribution of overall risk scores",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "runs_total",
			Help:      "Total number of snapshot runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "run_duration_seconds",
			Help:      "Snapshot run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful snapshot run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordFetch records one pool lookup.
func RecordFetch(status string, seconds float64) {
	DefaultMetrics.FetchRequests.WithLabelValues(status).Inc()
	DefaultMetrics.FetchLatency.Observe(seconds)
}

// RecordToken records the outcome for one token in a run.
func RecordToken(outcome string) {
	DefaultMetrics.TokensProcessed.WithLabelValues(outcome).Inc()
}

// ObserveOverallScore records a computed overall score.
func ObserveOverallScore(score float64) {
	DefaultMetrics.OverallScore.Observe(score)
}

// RecordSinkWrite records a sink write.
func RecordSinkWrite(sink string, records int, err error) {
	if err != nil {
		DefaultMetrics.SinkErrors.WithLabelValues(sink).Inc()
		return
	}
	DefaultMetrics.RecordsWritten.WithLabelValues(sink).Add(float64(records))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordRun records a snapshot run.
func RecordRun(status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RunDuration.Observe(durationSeconds)
	if status == "success" {
		DefaultMetrics.LastSuccessfulRun.Set(float64(time.Now().Unix()))
	}
}
