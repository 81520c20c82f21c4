// Package metrics exposes Prometheus counters for the listing core and
// request latency for the HTTP surfaces.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nayzak"

// Metrics holds the application's collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	ListingsCreated prometheus.Counter
	ListingsUpdated prometheus.Counter
	ListingsDeleted prometheus.Counter
	ListingViews    prometheus.Counter
	ViewErrors      prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ListingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_created_total",
			Help:      "Total number of listings created.",
		}),
		ListingsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_updated_total",
			Help:      "Total number of listings updated.",
		}),
		ListingsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_deleted_total",
			Help:      "Total number of listings deleted.",
		}),
		ListingViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_views_total",
			Help:      "Total number of recorded listing views.",
		}),
		ViewErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_view_errors_total",
			Help:      "Total number of view increments that failed.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}

	m.Registry.MustRegister(
		m.ListingsCreated,
		m.ListingsUpdated,
		m.ListingsDeleted,
		m.ListingViews,
		m.ViewErrors,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Created counts a committed create.
func (m *Metrics) Created() {
	if m != nil {
		m.ListingsCreated.Inc()
	}
}

// Updated counts a committed update.
func (m *Metrics) Updated() {
	if m != nil {
		m.ListingsUpdated.Inc()
	}
}

// Deleted counts a committed delete.
func (m *Metrics) Deleted() {
	if m != nil {
		m.ListingsDeleted.Inc()
	}
}

// Viewed counts a successful view increment.
func (m *Metrics) Viewed() {
	if m != nil {
		m.ListingViews.Inc()
	}
}

// ViewFailed counts a view increment that could not be stored.
func (m *Metrics) ViewFailed() {
	if m != nil {
		m.ViewErrors.Inc()
	}
}

// ObserveRequest records the duration of one HTTP request.
func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
