package main

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/AntonStoeckl/library-circulation-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/config"
)

const instrumentationName = "github.com/AntonStoeckl/library-circulation-go"

// telemetry holds the OpenTelemetry providers of one run.
// Spans and metrics stay in-process unless an exporter is registered on the providers.
type telemetry struct {
	tracerProvider   *sdktrace.TracerProvider
	meterProvider    *sdkmetric.MeterProvider
	metricsCollector *oteladapters.MetricsCollector
	tracingCollector *oteladapters.TracingCollector
}

func newTelemetry(ctx context.Context, cfg config.Config, metricReader sdkmetric.Reader) (*telemetry, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithResource(res))

	meterOptions := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if metricReader != nil {
		meterOptions = append(meterOptions, sdkmetric.WithReader(metricReader))
	}

	meterProvider := sdkmetric.NewMeterProvider(meterOptions...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &telemetry{
		tracerProvider:   tracerProvider,
		meterProvider:    meterProvider,
		metricsCollector: oteladapters.NewMetricsCollector(meterProvider.Meter(instrumentationName)),
		tracingCollector: oteladapters.NewTracingCollector(tracerProvider.Tracer(instrumentationName)),
	}, nil
}

func (t *telemetry) shutdown(ctx context.Context) error {
	return errors.Join(
		t.tracerProvider.Shutdown(ctx),
		t.meterProvider.Shutdown(ctx),
	)
}
