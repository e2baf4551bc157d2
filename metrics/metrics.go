package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_http_requests_total",
		Help: "HTTP requests served, by method, route and status.",
	}, []string{"method", "path", "status"})

	HttpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	PriceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_price_fetch_total",
		Help: "Price series lookups by result (hit, miss, error).",
	}, []string{"result"})

	CatalogStocks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dashboard_catalog_stocks",
		Help: "Stocks loaded per market at startup.",
	}, []string{"market"})
)
