package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

const (
	// CommandDurationMetric tracks librarian command duration.
	CommandDurationMetric = "librarian_command_duration_seconds"

	// CommandCallsMetric tracks total librarian command calls.
	CommandCallsMetric = "librarian_command_calls_total"

	// CommandNoEffectMetric tracks attempts that were journaled but changed nothing
	// (unavailable, not found, not issued).
	CommandNoEffectMetric = "librarian_command_no_effect_total"

	// CommandCanceledMetric tracks canceled commands.
	CommandCanceledMetric = "librarian_command_canceled_total"

	// CommandTimeoutMetric tracks commands that ran into their deadline.
	CommandTimeoutMetric = "librarian_command_timeout_total"

	// CommandConcurrencyConflictMetric tracks commands that gave up on journal conflicts.
	CommandConcurrencyConflictMetric = "librarian_command_concurrency_conflicts_total"

	// JournalRetriesMetric tracks retry attempts when recording journal entries.
	//
	// Labels:
	//   - operation: what was retried, e.g. "IssueBook"
	//   - attempt_number: which retry attempt (1, 2, 3, 4)
	//   - error_type: why it was retried (e.g. "concurrency_conflict")
	JournalRetriesMetric = "journal_retries_total"

	// JournalRetryDelayMetric tracks the backoff delay before each retry.
	JournalRetryDelayMetric = "journal_retry_delay_seconds"

	// JournalMaxRetriesReachedMetric tracks recordings that exhausted all attempts.
	JournalMaxRetriesReachedMetric = "journal_max_retries_reached_total"

	// StatusSuccess indicates a command that changed state.
	StatusSuccess = "success"

	// StatusNoEffect indicates a command that was answered with a failure outcome.
	StatusNoEffect = "no_effect"

	// StatusError indicates an infrastructure or validation error.
	StatusError = "error"

	// StatusCanceled indicates the command was canceled due to context cancellation.
	StatusCanceled = "canceled"

	// StatusTimeout indicates the command ran into its context deadline.
	StatusTimeout = "timeout"

	// StatusConcurrencyConflict indicates the journal kept rejecting the append.
	StatusConcurrencyConflict = "concurrency_conflict"

	// LogMsgCommandStarted is logged when a librarian command begins.
	LogMsgCommandStarted = "librarian command started"

	// LogMsgCommandCompleted is logged when a librarian command returns an outcome.
	LogMsgCommandCompleted = "librarian command completed"

	// LogMsgCommandFailed is logged when a librarian command returns an error.
	LogMsgCommandFailed = "librarian command failed"

	// LogMsgJournalEntryRecorded is logged after a journal entry was appended.
	LogMsgJournalEntryRecorded = "journal entry recorded"

	// LogMsgJournalRetried is logged when recording needed more than one attempt.
	LogMsgJournalRetried = "journal entry recorded after retries"

	// LogAttrCommandType identifies the command type in logs.
	LogAttrCommandType = "command_type"

	// LogAttrStatus indicates the command processing status.
	LogAttrStatus = "status"

	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrBusinessOutcome holds the outcome's string form.
	LogAttrBusinessOutcome = "business_outcome"

	// LogAttrError contains error details.
	LogAttrError = "error"

	// LogAttrOperation names the retried operation.
	LogAttrOperation = "operation"

	// LogAttrAttemptNumber is the retry attempt label.
	LogAttrAttemptNumber = "attempt_number"

	// LogAttrErrorType classifies the error causing a retry.
	LogAttrErrorType = "error_type"

	// LogAttrFinalErrorType classifies the error that exhausted the retries.
	LogAttrFinalErrorType = "final_error_type"

	// LogAttrEventType identifies the journaled event type.
	LogAttrEventType = "event_type"

	// LogAttrAttempts is the number of attempts a recording took.
	LogAttrAttempts = "attempts"

	// LogAttrReaderTicket identifies the reader concerned.
	LogAttrReaderTicket = "reader_ticket"

	// SpanNameCommand is the tracing span name for librarian commands.
	SpanNameCommand = "librarian.command"
)

// MetricsCollector interface for collecting librarian performance metrics.
type MetricsCollector = eventstore.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = eventstore.ContextualMetricsCollector

// TracingCollector interface for distributed tracing of librarian commands.
type TracingCollector = eventstore.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = eventstore.SpanContext

// ContextualLogger interface for context-aware logging.
type ContextualLogger = eventstore.ContextualLogger

// Logger interface for basic logging.
type Logger = eventstore.Logger

// BuildCommandLabels creates standard metric labels for librarian commands.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(operation string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrOperation:     operation,
		LogAttrAttemptNumber: strconv.Itoa(attemptNumber),
		LogAttrErrorType:     errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// StatusFor maps a command result to its metric status.
func StatusFor(changedState bool, err error) string {
	switch {
	case err == nil && changedState:
		return StatusSuccess
	case err == nil:
		return StatusNoEffect
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case IsConcurrencyConflictError(err):
		return StatusConcurrencyConflict
	default:
		return StatusError
	}
}

// RecordCommandMetrics records the duration and call counter of a command,
// plus a dedicated counter for the no-effect, canceled, timeout and conflict statuses.
// It handles both context-aware and basic metrics collectors.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	recordDuration(ctx, collector, CommandDurationMetric, duration, labels)
	incrementCounter(ctx, collector, CommandCallsMetric, labels)

	var statusMetric string
	switch status {
	case StatusNoEffect:
		statusMetric = CommandNoEffectMetric
	case StatusCanceled:
		statusMetric = CommandCanceledMetric
	case StatusTimeout:
		statusMetric = CommandTimeoutMetric
	case StatusConcurrencyConflict:
		statusMetric = CommandConcurrencyConflictMetric
	default:
		return
	}

	incrementCounter(ctx, collector, statusMetric, BuildCommandLabels(commandType, status))
}

func recordDuration(
	ctx context.Context,
	collector MetricsCollector,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

func incrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// StartCommandSpan starts a tracing span for a librarian command.
// Returns the original context and nil if tracing is disabled.
func StartCommandSpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	commandType string,
) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	attrs := map[string]string{
		LogAttrCommandType: commandType,
	}

	return tracingCollector.StartSpan(ctx, SpanNameCommand, attrs)
}

// FinishCommandSpan completes a tracing span with the command's status and outcome.
func FinishCommandSpan(
	tracingCollector TracingCollector,
	span SpanContext,
	status string,
	businessOutcome string,
	duration time.Duration,
	err error,
) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:          status,
		LogAttrBusinessOutcome: businessOutcome,
		LogAttrDurationMS:      formatDurationMS(duration),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogCommandStart logs the beginning of a librarian command.
func LogCommandStart(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, LogMsgCommandStarted, LogAttrCommandType, commandType)
	} else if logger != nil {
		logger.Info(LogMsgCommandStarted, LogAttrCommandType, commandType)
	}
}

// LogCommandSuccess logs a command that returned an outcome.
func LogCommandSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	businessOutcome string,
	duration time.Duration,
) {
	args := []any{
		LogAttrCommandType, commandType,
		LogAttrBusinessOutcome, businessOutcome,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, LogMsgCommandCompleted, args...)
	} else if logger != nil {
		logger.Info(LogMsgCommandCompleted, args...)
	}
}

// LogCommandError logs a command that returned an error.
func LogCommandError(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	err error,
) {
	args := []any{
		LogAttrCommandType, commandType,
		LogAttrError, err.Error(),
	}

	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, LogMsgCommandFailed, args...)
	} else if logger != nil {
		logger.Error(LogMsgCommandFailed, args...)
	}
}

func formatDurationMS(duration time.Duration) string {
	return fmt.Sprintf("%.2f", ToMilliseconds(duration))
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConcurrencyConflictError checks if an error is due to optimistic concurrency control failure.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, eventstore.ErrConcurrencyConflict)
}
