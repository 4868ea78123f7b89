// Package metrics holds the prometheus collectors of the service and the helpers wiring them
// into inbound and outbound HTTP traffic.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	TargetCollection = "collection"
	TargetImage      = "image"

	// UnmatchedPath labels requests that did not match any route.
	UnmatchedPath = "unmatched"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artcolor_http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artcolor_http_request_duration_seconds",
			Help:    "Duration of served HTTP requests.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"method", "path", "status"},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artcolor_upstream_requests_total",
			Help: "Total number of requests sent to the collection API and image hosts.",
		},
		[]string{"target", "code", "method"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artcolor_upstream_request_duration_seconds",
			Help:    "Duration of requests sent to the collection API and image hosts.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target", "code", "method"},
	)

	PrimaryColorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artcolor_primary_colors_total",
			Help: "Number of images classified per primary color.",
		},
		[]string{"color"},
	)
)

// InstrumentedTransport wraps next so that every outbound request is counted and timed
// under the given target label. A nil next uses http.DefaultTransport.
func InstrumentedTransport(target string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	labels := prometheus.Labels{"target": target}
	return promhttp.InstrumentRoundTripperCounter(
		UpstreamRequestsTotal.MustCurryWith(labels),
		promhttp.InstrumentRoundTripperDuration(
			UpstreamRequestDuration.MustCurryWith(labels),
			next,
		),
	)
}

// Middleware records count and latency of every request handled by echo.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			// unmatched requests share one label so scanned URLs cannot grow the series count
			path := c.Path()
			if path == "" {
				path = UnmatchedPath
			}
			statusLabel := strconv.Itoa(status)

			HTTPRequestDuration.WithLabelValues(c.Request().Method, path, statusLabel).Observe(time.Since(start).Seconds())
			HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, statusLabel).Inc()
			return err
		}
	}
}

// Handler exposes the default registry for scraping.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
