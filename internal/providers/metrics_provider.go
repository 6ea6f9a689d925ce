package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"nicks/internal/store"
	"nicks/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncMigrations(step string, outcome string)
	AddRecordsMigrated(step string, n uint64)
	AddDecodeFailures(step string, n uint64)
	ObserveMigrationDuration(step string, duration time.Duration)
	SetOnchainVersion(version uint16)
}

type MetricsProvider struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	migrationsTotal   *prometheus.CounterVec
	recordsMigrated   *prometheus.CounterVec
	decodeFailures    *prometheus.CounterVec
	migrationDuration *prometheus.HistogramVec
	onchainVersion    prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncMigrations(step string, outcome string) {
	m.migrationsTotal.WithLabelValues(step, outcome).Inc()
}

func (m *MetricsProvider) AddRecordsMigrated(step string, n uint64) {
	m.recordsMigrated.WithLabelValues(step).Add(float64(n))
}

func (m *MetricsProvider) AddDecodeFailures(step string, n uint64) {
	m.decodeFailures.WithLabelValues(step).Add(float64(n))
}

func (m *MetricsProvider) ObserveMigrationDuration(step string, duration time.Duration) {
	m.migrationDuration.WithLabelValues(step).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetOnchainVersion(version uint16) {
	m.onchainVersion.Set(float64(version))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, names store.Store) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nicks_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nicks_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nicks_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nicks_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		migrationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nicks_migrations_total",
			Help: "Migration step invocations by outcome",
		}, []string{"step", "outcome"}),

		recordsMigrated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nicks_records_migrated_total",
			Help: "Records rewritten by migration steps",
		}, []string{"step"}),

		decodeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nicks_decode_failures_total",
			Help: "Records that failed to decode during a migration step",
		}, []string{"step"}),

		migrationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nicks_migration_duration_seconds",
			Help:    "Duration of executed migration steps in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"step"}),

		onchainVersion: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "nicks_onchain_version",
			Help: "Schema version the stored records are currently in",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "nicks_records_total",
		Help: "Number of entries in the NameOf map",
	}, func() float64 {
		n, err := names.Count()
		if err != nil {
			return 0
		}
		return float64(n)
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                   {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)   {}
func (n *noopMetrics) IncCacheHits()                                      {}
func (n *noopMetrics) IncCacheMisses()                                    {}
func (n *noopMetrics) IncMigrations(_ string, _ string)                   {}
func (n *noopMetrics) AddRecordsMigrated(_ string, _ uint64)              {}
func (n *noopMetrics) AddDecodeFailures(_ string, _ uint64)               {}
func (n *noopMetrics) ObserveMigrationDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) SetOnchainVersion(_ uint16)                         {}
