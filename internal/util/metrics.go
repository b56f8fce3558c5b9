package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products created",
	})

	ProductsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_updated_total",
		Help: "Total number of full product updates",
	})

	ProductStatusChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_status_changes_total",
		Help: "Total number of status-only product updates",
	})

	ProductsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "Total number of product deletions",
	})

	MutationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_mutations_failed_total",
		Help: "Total number of failed product mutations",
	}, []string{"operation", "reason"})

	StatisticsRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "statistics_requests_total",
		Help: "Total number of statistics aggregations computed",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Total number of events broadcast to connected clients",
	}, []string{"event"})

	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "connected_clients",
		Help: "Number of currently connected real-time clients",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
