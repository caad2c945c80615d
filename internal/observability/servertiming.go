package observability

import (
	"context"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
)

// MetricDB and MetricRender are the Server-Timing entries every page reports.
const (
	MetricDB     = "db"
	MetricRender = "render"
)

// ServerTimingMetric wraps a running go-server-timing metric.
type ServerTimingMetric struct {
	metric *servertiming.Metric
}

// Stop ends the metric. Safe on the no-op value.
func (m *ServerTimingMetric) Stop() {
	if m != nil && m.metric != nil {
		m.metric.Stop()
	}
}

// StartServerTiming starts a named metric on the request's Server-Timing
// header. Without a header in ctx it returns a no-op metric.
func StartServerTiming(ctx context.Context, name string) *ServerTimingMetric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &ServerTimingMetric{}
	}
	return &ServerTimingMetric{metric: timing.NewMetric(name).Start()}
}

// AddDBTime folds d into the single "db" metric of the request.
func AddDBTime(ctx context.Context, d time.Duration) {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return
	}
	timing.Lock()
	defer timing.Unlock()
	for _, m := range timing.Metrics {
		if m.Name == MetricDB {
			m.Duration += d
			return
		}
	}
	timing.Metrics = append(timing.Metrics, &servertiming.Metric{Name: MetricDB, Duration: d})
}
