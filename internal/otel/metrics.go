package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "harbor"

// Metrics holds harbor's metric instruments. Counters are cumulative and
// safe for concurrent use.
type Metrics struct {
	// Transport counters, partitioned by target service via attributes.
	Sends    metric.Int64Counter
	Captures metric.Int64Counter
	Parleys  metric.Int64Counter

	// Denials partitioned by caller + target.
	AccessDenials metric.Int64Counter
}

// Parley result attribute values.
const (
	ParleyExtracted = "extracted" // markers found, region extracted
	ParleyFallback  = "fallback"  // markers absent, raw capture returned
	ParleyEmpty     = "empty"     // extracted region was empty
)

// NewMetrics creates all instruments. They are no-ops when no MeterProvider
// is registered, so callers record unconditionally.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Sends, err = meter.Int64Counter("harbor.sends",
		metric.WithDescription("Fire-and-forget commands injected into panes"))
	if err != nil {
		return nil, err
	}

	m.Captures, err = meter.Int64Counter("harbor.captures",
		metric.WithDescription("Pane buffer captures"))
	if err != nil {
		return nil, err
	}

	m.Parleys, err = meter.Int64Counter("harbor.parleys",
		metric.WithDescription("Parley exchanges partitioned by result (extracted, fallback, empty)"))
	if err != nil {
		return nil, err
	}

	m.AccessDenials, err = meter.Int64Counter("harbor.access_denials",
		metric.WithDescription("Pane-to-pane calls refused by the capability list"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSend records a fire-and-forget send to a target service.
func (m *Metrics) RecordSend(ctx context.Context, target string) {
	if m == nil {
		return
	}
	m.Sends.Add(ctx, 1, metric.WithAttributes(attribute.String("harbor.target", target)))
}

// RecordCapture records a pane capture.
func (m *Metrics) RecordCapture(ctx context.Context, target string) {
	if m == nil {
		return
	}
	m.Captures.Add(ctx, 1, metric.WithAttributes(attribute.String("harbor.target", target)))
}

// RecordParley records a parley exchange and how its response was obtained.
func (m *Metrics) RecordParley(ctx context.Context, target, result string) {
	if m == nil {
		return
	}
	m.Parleys.Add(ctx, 1, metric.WithAttributes(
		attribute.String("harbor.target", target),
		attribute.String("harbor.result", result),
	))
}

// RecordDenial records a capability-list refusal.
func (m *Metrics) RecordDenial(ctx context.Context, caller, target string) {
	if m == nil {
		return
	}
	m.AccessDenials.Add(ctx, 1, metric.WithAttributes(
		attribute.String("harbor.caller", caller),
		attribute.String("harbor.target", target),
	))
}
