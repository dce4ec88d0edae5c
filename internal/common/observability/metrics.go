package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records wizard step transitions through an OpenTelemetry meter
// exported on the default prometheus registry.
type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	stepCounter    otelmetric.Int64Counter
	restartCounter otelmetric.Int64Counter
	stepDuration   otelmetric.Float64Histogram
}

func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithProvider(provider, serviceName), nil
}

func newWithProvider(provider *metric.MeterProvider, serviceName string) *Observability {
	meter := provider.Meter(serviceName)

	stepCounter, _ := meter.Int64Counter(
		"wizard.step.transitions",
		otelmetric.WithDescription("Number of wizard step transitions"),
	)

	restartCounter, _ := meter.Int64Counter(
		"wizard.restarts",
		otelmetric.WithDescription("Number of wizard restarts"),
	)

	stepDuration, _ := meter.Float64Histogram(
		"wizard.step.duration",
		otelmetric.WithDescription("Time spent on a wizard step before moving on"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		stepCounter:    stepCounter,
		restartCounter: restartCounter,
		stepDuration:   stepDuration,
	}
}

// RecordTransition counts a move from one step to another.
func (o *Observability) RecordTransition(ctx context.Context, from, to string) {
	if o == nil || o.stepCounter == nil {
		return
	}
	o.stepCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordStepDuration records how long a draft sat on a step.
func (o *Observability) RecordStepDuration(ctx context.Context, step string, duration time.Duration) {
	if o == nil || o.stepDuration == nil || duration <= 0 {
		return
	}
	o.stepDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("step", step),
	))
}

// RecordRestart counts a restart from the identity step.
func (o *Observability) RecordRestart(ctx context.Context) {
	if o == nil || o.restartCounter == nil {
		return
	}
	o.restartCounter.Add(ctx, 1)
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
