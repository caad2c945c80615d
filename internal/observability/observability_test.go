package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestStartServerTiming_NoHeaderIsNoop(t *testing.T) {
	m := StartServerTiming(context.Background(), MetricRender)
	assert.NotPanics(t, m.Stop)

	var nilMetric *ServerTimingMetric
	assert.NotPanics(t, nilMetric.Stop)
}

func TestAddDBTime_Accumulates(t *testing.T) {
	h := &servertiming.Header{}
	ctx := servertiming.NewContext(context.Background(), h)

	AddDBTime(ctx, 2*time.Millisecond)
	AddDBTime(ctx, 3*time.Millisecond)

	assert.Len(t, h.Metrics, 1)
	assert.Equal(t, MetricDB, h.Metrics[0].Name)
	assert.Equal(t, 5*time.Millisecond, h.Metrics[0].Duration)

	AddDBTime(context.Background(), time.Second)
}

func TestServerTimingHeaderWritten(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := StartServerTiming(r.Context(), MetricRender)
		AddDBTime(r.Context(), time.Millisecond)
		m.Stop()
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	servertiming.Middleware(inner, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	header := rec.Header().Get(servertiming.HeaderKey)
	assert.True(t, strings.Contains(header, "render"), header)
	assert.True(t, strings.Contains(header, "db"), header)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.LoginFailed(context.Background())
		m.ProductChanged(context.Background(), "create")
	})

	m = NewMetrics(noop.NewMeterProvider())
	assert.NotPanics(t, func() {
		m.LoginFailed(context.Background())
		m.LockedOut(context.Background())
		m.ProductChanged(context.Background(), "delete")
		m.ContactReceived(context.Background())
	})
}
