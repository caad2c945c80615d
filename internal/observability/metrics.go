package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "yantrashilpa.com/web"

// Tracer is the tracer the domain services start their spans from.
func Tracer() trace.Tracer { return otel.Tracer(instrumentationName) }

// Metrics holds the counters for admin and visitor activity.
type Metrics struct {
	loginFailures   metric.Int64Counter
	lockouts        metric.Int64Counter
	productMutation metric.Int64Counter
	contactMessages metric.Int64Counter
}

// NewMetrics builds the instruments on mp. A nil mp uses the global provider,
// which is a no-op until an SDK is installed.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	m := &Metrics{}

	var err error
	m.loginFailures, err = meter.Int64Counter("admin.login.failures",
		metric.WithDescription("Rejected admin login attempts"),
		metric.WithUnit("{attempt}"))
	if err != nil {
		m.loginFailures, _ = meter.Int64Counter("admin.login.failures")
	}

	m.lockouts, err = meter.Int64Counter("admin.login.lockouts",
		metric.WithDescription("Client keys locked after repeated failures"),
		metric.WithUnit("{lockout}"))
	if err != nil {
		m.lockouts, _ = meter.Int64Counter("admin.login.lockouts")
	}

	m.productMutation, err = meter.Int64Counter("catalog.product.mutations",
		metric.WithDescription("Admin create, delete and status changes on products"),
		metric.WithUnit("{change}"))
	if err != nil {
		m.productMutation, _ = meter.Int64Counter("catalog.product.mutations")
	}

	m.contactMessages, err = meter.Int64Counter("contact.messages",
		metric.WithDescription("Contact form submissions stored"),
		metric.WithUnit("{message}"))
	if err != nil {
		m.contactMessages, _ = meter.Int64Counter("contact.messages")
	}
	return m
}

func (m *Metrics) LoginFailed(ctx context.Context) {
	if m != nil {
		m.loginFailures.Add(ctx, 1)
	}
}

func (m *Metrics) LockedOut(ctx context.Context) {
	if m != nil {
		m.lockouts.Add(ctx, 1)
	}
}

func (m *Metrics) ProductChanged(ctx context.Context, action string) {
	if m != nil {
		m.productMutation.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
	}
}

func (m *Metrics) ContactReceived(ctx context.Context) {
	if m != nil {
		m.contactMessages.Add(ctx, 1)
	}
}
