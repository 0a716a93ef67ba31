package instrumented_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"recipebook/pkg/domain"
	"recipebook/pkg/storage"
	"recipebook/pkg/storage/instrumented"
	mockstorage "recipebook/pkg/storage/mock"
	"recipebook/pkg/storage/storagetest"
)

type fixture struct {
	repo   *instrumented.Repository
	next   *mockstorage.MockRecipeRepository
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	next := mockstorage.NewMockRecipeRepository(ctrl)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	repo, err := instrumented.New(next, "memory", tp, mp)
	require.NoError(t, err)

	return fixture{repo: repo, next: next, spans: spans, reader: reader}
}

func (f fixture) calls(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "storage.calls" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value(attribute.Key("operation"))
				res, _ := dp.Attributes.Value(attribute.Key("outcome"))
				out[op.AsString()+"/"+res.AsString()] += dp.Value
			}
		}
	}

	return out
}

func TestRepository_DelegatesAndRecords(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	r := storagetest.Recipe(t, "Soup")

	f.next.EXPECT().Create(gomock.Any(), r).Return(r, nil)
	f.next.EXPECT().FindOne(gomock.Any(), storage.RecipeCriteria{Name: "Soup"}).Return(domain.Recipe{}, storage.ErrNotFound)
	f.next.EXPECT().FindAll(gomock.Any(), storage.RecipeCriteria{}).Return([]domain.Recipe{r}, nil)
	f.next.EXPECT().Update(gomock.Any(), r).Return(domain.Recipe{}, storage.ErrConflict)
	f.next.EXPECT().Delete(gomock.Any(), r.ID()).Return(nil)

	got, err := f.repo.Create(ctx, r)
	require.NoError(t, err)
	require.True(t, r.Equal(got))

	_, err = f.repo.FindOne(ctx, storage.RecipeCriteria{Name: "Soup"})
	require.ErrorIs(t, err, storage.ErrNotFound)

	all, err := f.repo.FindAll(ctx, storage.RecipeCriteria{})
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = f.repo.Update(ctx, r)
	require.ErrorIs(t, err, storage.ErrConflict)

	require.NoError(t, f.repo.Delete(ctx, r.ID()))

	require.Equal(t, map[string]int64{
		"Create/ok":         1,
		"FindOne/not_found": 1,
		"FindAll/ok":        1,
		"Update/conflict":   1,
		"Delete/ok":         1,
	}, f.calls(t))

	ended := f.spans.Ended()
	require.Len(t, ended, 5)
	require.Equal(t, "storage.Create", ended[0].Name())
	require.Equal(t, "storage.Delete", ended[4].Name())
	for _, s := range ended {
		require.NotEqual(t, codes.Error, s.Status().Code, "expected outcomes must not mark the span as failed")
	}
}

func TestRepository_UnknownErrorMarksSpan(t *testing.T) {
	f := setup(t)
	boom := errors.New("connection reset")

	f.next.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := f.repo.FindAll(context.Background(), storage.RecipeCriteria{})
	require.ErrorIs(t, err, boom)

	ended := f.spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Error, ended[0].Status().Code)
	require.Equal(t, map[string]int64{"FindAll/error": 1}, f.calls(t))
}
