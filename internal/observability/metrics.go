package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingestion outcomes recorded by IngestionsTotal
const (
	OutcomeSuccess  = "success"
	OutcomePartial  = "partial"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Ingestion metrics
	IngestionsTotal   *prometheus.CounterVec
	IngestionDuration prometheus.Histogram
	ArchiveSizeBytes  prometheus.Histogram

	// Listing metrics
	ListingCacheTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostmydocs_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hostmydocs_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		IngestionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostmydocs_ingestions_total",
				Help: "Total number of archive ingestions by outcome",
			},
			[]string{"outcome"},
		),
		IngestionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hostmydocs_ingestion_duration_seconds",
				Help:    "Archive ingestion duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		ArchiveSizeBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hostmydocs_archive_size_bytes",
				Help:    "Size of uploaded documentation archives",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
		ListingCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostmydocs_listing_cache_total",
				Help: "Listing cache lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.IngestionsTotal,
		m.IngestionDuration,
		m.ArchiveSizeBytes,
		m.ListingCacheTotal,
	)

	return m
}

// ObserveHTTPRequest records one served request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveIngestion records one ingestion attempt
func (m *Metrics) ObserveIngestion(outcome string, duration time.Duration, archiveSize int64) {
	if m == nil {
		return
	}
	m.IngestionsTotal.WithLabelValues(outcome).Inc()
	m.IngestionDuration.Observe(duration.Seconds())
	if archiveSize > 0 {
		m.ArchiveSizeBytes.Observe(float64(archiveSize))
	}
}

// ObserveListingCache records a listing cache hit or miss
func (m *Metrics) ObserveListingCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ListingCacheTotal.WithLabelValues(result).Inc()
}

// Handler exposes the metrics gathered by gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
