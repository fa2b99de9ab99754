package observable

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/librarian"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

// ErrNilLibrarian is returned when there is nothing to wrap.
var ErrNilLibrarian = errors.New("librarian must not be nil")

// Librarian is what LibrarianWrapper decorates. *librarian.Librarian satisfies it.
type Librarian interface {
	IssueBook(ctx context.Context, command librarian.IssueBook) (core.Outcome, error)
	ReturnBook(ctx context.Context, command librarian.ReturnBook) (core.Outcome, error)
}

// LibrarianWrapper instruments every IssueBook and ReturnBook call and delegates to the wrapped Librarian.
type LibrarianWrapper struct {
	wrapped          Librarian
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewLibrarianWrapper creates a new observable wrapper around the given Librarian.
func NewLibrarianWrapper(wrapped Librarian, opts ...Option) (*LibrarianWrapper, error) {
	if wrapped == nil {
		return nil, ErrNilLibrarian
	}

	wrapper := &LibrarianWrapper{wrapped: wrapped}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// IssueBook delegates to the wrapped Librarian with observability.
func (w *LibrarianWrapper) IssueBook(ctx context.Context, command librarian.IssueBook) (core.Outcome, error) {
	return w.observe(ctx, command.CommandType(), func(ctx context.Context) (core.Outcome, error) {
		return w.wrapped.IssueBook(ctx, command)
	})
}

// ReturnBook delegates to the wrapped Librarian with observability.
func (w *LibrarianWrapper) ReturnBook(ctx context.Context, command librarian.ReturnBook) (core.Outcome, error) {
	return w.observe(ctx, command.CommandType(), func(ctx context.Context) (core.Outcome, error) {
		return w.wrapped.ReturnBook(ctx, command)
	})
}

func (w *LibrarianWrapper) observe(
	ctx context.Context,
	commandType string,
	handle func(ctx context.Context) (core.Outcome, error),
) (core.Outcome, error) {

	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, commandType)
	shell.LogCommandStart(ctx, w.logger, w.contextualLogger, commandType)

	outcome, err := handle(ctx)

	duration := time.Since(commandStart)
	status := shell.StatusFor(outcome.ChangedState(), err)

	shell.RecordCommandMetrics(ctx, w.metricsCollector, commandType, status, duration)
	shell.FinishCommandSpan(w.tracingCollector, span, status, outcome.String(), duration, err)

	if err != nil {
		shell.LogCommandError(ctx, w.logger, w.contextualLogger, commandType, err)
		return outcome, err
	}

	shell.LogCommandSuccess(ctx, w.logger, w.contextualLogger, commandType, outcome.String(), duration)

	return outcome, nil
}

// Option defines a functional option for configuring LibrarianWrapper.
type Option func(*LibrarianWrapper) error

// WithMetrics sets the metrics collector for the LibrarianWrapper.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(w *LibrarianWrapper) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the LibrarianWrapper.
func WithTracing(collector shell.TracingCollector) Option {
	return func(w *LibrarianWrapper) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger for the LibrarianWrapper.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(w *LibrarianWrapper) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger for the LibrarianWrapper.
func WithLogging(logger shell.Logger) Option {
	return func(w *LibrarianWrapper) error {
		w.logger = logger
		return nil
	}
}
