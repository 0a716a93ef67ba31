package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"recipebook/pkg/metrics"
)

// WithMetrics returns a middleware recording the request count and latency
// per route pattern, method and status code.
func WithMetrics(mp metric.MeterProvider) (func(http.Handler) http.Handler, error) {
	meter := mp.Meter("recipebook/pkg/controller")

	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create request duration histogram: %w", err)
	}
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests"))
	if err != nil {
		return nil, fmt.Errorf("could not create request counter: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			// the route pattern is only known once chi has routed the request
			attrs := metric.WithAttributes(
				attribute.String("http.route", routePattern(r)),
				attribute.String("http.request.method", r.Method),
				attribute.String("http.response.status_code", strconv.Itoa(rec.status)),
			)
			duration.Record(r.Context(), time.Since(start).Seconds(), attrs)
			requests.Add(r.Context(), 1, attrs)
		})
	}, nil
}
