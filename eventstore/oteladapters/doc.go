// Package oteladapters implements the eventstore observability interfaces on top of OpenTelemetry.
//
// The circulation desk and the journal engines only know eventstore.Logger, eventstore.ContextualLogger,
// eventstore.MetricsCollector and eventstore.TracingCollector. The adapters in this package plug those
// into an OpenTelemetry setup: the slog bridge for logs, a Meter for metrics, a Tracer for spans.
package oteladapters
