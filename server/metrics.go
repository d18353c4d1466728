package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dca_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Plan metrics
	PlanRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_plan_requests_total",
			Help: "Total number of plans computed",
		},
		[]string{"mode", "status"},
	)

	PlanAssets = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dca_plan_assets",
		Help:    "Number of assets in planned portfolios",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	})

	// Price metrics
	PriceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_price_fetches_total",
			Help: "Total number of prices asked to the upstream provider",
		},
		[]string{"status"},
	)

	PriceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dca_price_fetch_duration_seconds",
		Help:    "Upstream price fetch duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	PriceCacheResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dca_price_cache_resets_total",
		Help: "Total number of price cache resets",
	})
)
