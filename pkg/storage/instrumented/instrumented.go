// Package instrumented decorates a storage.RecipeRepository with
// OpenTelemetry spans and call metrics.
package instrumented

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"recipebook/pkg/domain"
	"recipebook/pkg/metrics"
	"recipebook/pkg/storage"
)

const instrumentationName = "recipebook/pkg/storage"

var _ storage.RecipeRepository = (*Repository)(nil)

// Repository wraps another repository. Every call produces a span named
// "storage.<Operation>", one sample of the call duration histogram and one
// increment of the call counter, both labelled with the operation and the
// outcome.
type Repository struct {
	next     storage.RecipeRepository
	backend  string
	tracer   trace.Tracer
	duration metric.Float64Histogram
	calls    metric.Int64Counter
}

// New builds the decorator. backend is recorded as an attribute on every
// span and sample.
func New(
	next storage.RecipeRepository,
	backend string,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
) (*Repository, error) {
	meter := mp.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("storage.call.duration",
		metric.WithDescription("Duration of recipe storage calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	calls, err := meter.Int64Counter("storage.calls",
		metric.WithDescription("Number of recipe storage calls"))
	if err != nil {
		return nil, fmt.Errorf("could not create calls counter: %w", err)
	}

	return &Repository{
		next:     next,
		backend:  backend,
		tracer:   tp.Tracer(instrumentationName),
		duration: duration,
		calls:    calls,
	}, nil
}

// outcome collapses an error into a low-cardinality label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrConflict):
		return "conflict"
	case errors.Is(err, storage.ErrInvalidData):
		return "invalid_data"
	default:
		return "error"
	}
}

func (r *Repository) start(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := r.tracer.Start(ctx, "storage."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("storage.backend", r.backend),
			attribute.String("storage.operation", op),
		))
	started := time.Now()

	return ctx, func(err error) {
		res := outcome(err)
		attrs := metric.WithAttributes(
			attribute.String("backend", r.backend),
			attribute.String("operation", op),
			attribute.String("outcome", res),
		)
		r.duration.Record(ctx, time.Since(started).Seconds(), attrs)
		r.calls.Add(ctx, 1, attrs)

		span.SetAttributes(attribute.String("storage.outcome", res))
		if res == "error" {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (r *Repository) Create(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error) {
	ctx, done := r.start(ctx, "Create")
	out, err := r.next.Create(ctx, recipe)
	done(err)

	return out, err //nolint: wrapcheck
}

func (r *Repository) FindOne(ctx context.Context, c storage.RecipeCriteria) (domain.Recipe, error) {
	ctx, done := r.start(ctx, "FindOne")
	out, err := r.next.FindOne(ctx, c)
	done(err)

	return out, err //nolint: wrapcheck
}

func (r *Repository) FindAll(ctx context.Context, c storage.RecipeCriteria) ([]domain.Recipe, error) {
	ctx, done := r.start(ctx, "FindAll")
	out, err := r.next.FindAll(ctx, c)
	done(err)

	return out, err //nolint: wrapcheck
}

func (r *Repository) Update(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error) {
	ctx, done := r.start(ctx, "Update")
	out, err := r.next.Update(ctx, recipe)
	done(err)

	return out, err //nolint: wrapcheck
}

func (r *Repository) Delete(ctx context.Context, id domain.RecipeID) error {
	ctx, done := r.start(ctx, "Delete")
	err := r.next.Delete(ctx, id)
	done(err)

	return err //nolint: wrapcheck
}
