package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// Observability owns the OpenTelemetry meter provider. Its instruments are
// exported through the default prometheus registry next to the promauto vectors.
type Observability struct {
	meterProvider    *metric.MeterProvider
	meter            otelmetric.Meter
	jobCounter       otelmetric.Int64Counter
	jobDuration      otelmetric.Float64Histogram
	responseCounter  otelmetric.Int64Counter
	responseDuration otelmetric.Float64Histogram
}

// New builds the provider. On exporter failure it logs and returns an
// Observability whose Record methods are no-ops.
func New(serviceName string, log *zap.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		if log != nil {
			log.Warn("Failed to create Prometheus exporter", zap.Error(err))
		}
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, _ := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	jobDuration, _ := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	responseCounter, _ := meter.Int64Counter(
		"responses.produced",
		otelmetric.WithDescription("Number of responses produced"),
	)
	responseDuration, _ := meter.Float64Histogram(
		"responses.duration",
		otelmetric.WithDescription("Response pipeline duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:    provider,
		meter:            meter,
		jobCounter:       jobCounter,
		jobDuration:      jobDuration,
		responseCounter:  responseCounter,
		responseDuration: responseDuration,
	}
}

func (o *Observability) RecordJobProcessed(ctx context.Context, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, duration time.Duration, status string) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

// RecordResponse counts one responder result and its pipeline time.
func (o *Observability) RecordResponse(ctx context.Context, category string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("category", category))
	if o.responseCounter != nil {
		o.responseCounter.Add(ctx, 1, attrs)
	}
	if o.responseDuration != nil {
		o.responseDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
