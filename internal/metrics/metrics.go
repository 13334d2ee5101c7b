// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package metrics defines the Prometheus metrics of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// SectionLoads counts customer data section loads by section and outcome.
	SectionLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_section_loads_total",
			Help: "Total number of customer data sections loaded",
		},
		[]string{"section", "status"},
	)

	// SectionDuration observes how long a section took to assemble.
	SectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "customer_section_duration_seconds",
			Help:    "Duration of customer data section assembly in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"section"},
	)

	// SidebarItems observes how many items a sidebar payload carried.
	SidebarItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wishlist_sidebar_items",
			Help:    "Number of items in assembled wishlist sidebar payloads",
			Buckets: []float64{0, 1, 2, 3},
		},
	)

	// WishlistShares counts shared wishlist emails by outcome.
	WishlistShares = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishlist_shares_total",
			Help: "Total number of wishlist share requests",
		},
		[]string{"status"},
	)
)

// Middleware records request counts and durations labelled by route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = "unknown"
			}

			labels := []string{c.Request().Method, path, strconv.Itoa(status)}
			httpRequestsTotal.WithLabelValues(labels...).Inc()
			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler serves the Prometheus exposition format.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
