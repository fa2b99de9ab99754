package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/library-circulation-go/eventstore/oteladapters"
)

func Test_SlogBridgeLogger_LogsAllLevelsWithAndWithoutContext(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	ctx := context.Background()

	// act
	logger.Debug("debug plain")
	logger.Info("info plain")
	logger.Warn("warn plain")
	logger.Error("error plain")
	logger.DebugContext(ctx, "debug ctx")
	logger.InfoContext(ctx, "info ctx")
	logger.WarnContext(ctx, "warn ctx")
	logger.ErrorContext(ctx, "error ctx")

	// assert
	output := buf.String()
	for _, msg := range []string{
		"debug plain", "info plain", "warn plain", "error plain",
		"debug ctx", "info ctx", "warn ctx", "error ctx",
	} {
		assert.Contains(t, output, msg)
	}
	assert.Contains(t, output, `"level":"DEBUG"`)
	assert.Contains(t, output, `"level":"ERROR"`)
}

func Test_SlogBridgeLogger_RespectsHandlerLevel(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	// act
	logger.Info("hidden")
	logger.Warn("shown")

	// assert
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func Test_SlogBridgeLogger_With(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, nil)).
		With("component", "librarian")

	// act
	logger.InfoContext(context.Background(), "book issued", "title", "Война и мир")

	// assert
	assert.Contains(t, buf.String(), `"component":"librarian"`)
	assert.Contains(t, buf.String(), `"title":"Война и мир"`)
}

func Test_NewSlogBridgeLogger_DoesNotPanicWithSpanContext(t *testing.T) {
	// arrange
	logger := oteladapters.NewSlogBridgeLogger("library-test")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{1},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	// act & assert
	assert.NotPanics(t, func() {
		logger.InfoContext(ctx, "book returned")
	})
}
