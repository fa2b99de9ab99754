package shell

import (
	"context"
	"errors"
	"slices"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// EventStore is the part of an event store engine the Journal needs.
// Both memengine.EventStore and postgresengine.EventStore satisfy it.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)

	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvent eventstore.StorableEvent,
	) error
}

// JournalEntry is one recorded issue or return attempt.
type JournalEntry struct {
	SequenceNumber uint
	Event          core.DomainEvent
	Metadata       EventMetadata
}

// Journal is the append-only transaction log of the circulation desk.
// It is read back for reporting only; nothing is ever restored from it.
type Journal struct {
	eventStore       EventStore
	retryOptions     []RetryOption
	metricsCollector MetricsCollector
	logger           Logger
}

// JournalOption configures a Journal.
type JournalOption func(*Journal) error

// WithRetryOptions sets the retry behavior used when an append runs into a concurrency conflict.
func WithRetryOptions(options ...RetryOption) JournalOption {
	return func(j *Journal) error {
		j.retryOptions = append(j.retryOptions, options...)
		return nil
	}
}

// WithJournalMetrics records retry metrics, labeled with the event type being recorded.
func WithJournalMetrics(collector MetricsCollector) JournalOption {
	return func(j *Journal) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		j.metricsCollector = collector

		return nil
	}
}

// WithJournalLogger sets the logger for the Journal.
func WithJournalLogger(logger Logger) JournalOption {
	return func(j *Journal) error {
		j.logger = logger
		return nil
	}
}

// NewJournal creates a Journal on top of the given event store.
func NewJournal(eventStore EventStore, options ...JournalOption) (*Journal, error) {
	if eventStore == nil {
		return nil, ErrNilEventStore
	}

	journal := &Journal{eventStore: eventStore}

	for _, option := range options {
		if err := option(journal); err != nil {
			return nil, err
		}
	}

	return journal, nil
}

// BuildJournalFilter matches every entry the journal writes.
func BuildJournalFilter() eventstore.Filter {
	eventTypes := core.AllEventTypes()

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		Finalize()
}

// BuildReaderJournalFilter matches the entries concerning one reader.
// It is also the consistency boundary when recording: concurrent recordings for the same reader conflict.
func BuildReaderJournalFilter(ticketNumber core.TicketNumberString) eventstore.Filter {
	eventTypes := core.AllEventTypes()

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("ReaderTicket", ticketNumber)).
		Finalize()
}

// Record appends event to the journal, retrying on concurrency conflicts.
func (j *Journal) Record(ctx context.Context, event core.DomainEvent) error {
	storableEvent, err := StorableEventFrom(event, eventMetadataFor(ctx))
	if err != nil {
		return errors.Join(ErrRecordingJournalEntryFailed, err)
	}

	filter := BuildReaderJournalFilter(event.ConcernsReader())

	retryOptions := slices.Clone(j.retryOptions)
	if j.metricsCollector != nil {
		retryOptions = append(retryOptions, WithMetrics(j.metricsCollector, event.EventType()))
	}

	metrics, err := RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			_, maxSequenceNumber, err := j.eventStore.Query(ctx, filter)
			if err != nil {
				return err
			}

			return j.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent)
		},
		retryOptions...,
	)

	if err != nil {
		return errors.Join(ErrRecordingJournalEntryFailed, err)
	}

	if j.logger != nil {
		msg := LogMsgJournalEntryRecorded
		if metrics.Attempts > 1 {
			msg = LogMsgJournalRetried
		}

		j.logger.Debug(
			msg,
			LogAttrEventType, event.EventType(),
			LogAttrReaderTicket, event.ConcernsReader(),
			LogAttrAttempts, metrics.Attempts,
		)
	}

	return nil
}

// History returns all journal entries in the order they were recorded.
func (j *Journal) History(ctx context.Context) ([]JournalEntry, error) {
	return j.read(ctx, BuildJournalFilter())
}

// HistoryOfReader returns the journal entries concerning one reader in the order they were recorded.
func (j *Journal) HistoryOfReader(ctx context.Context, ticketNumber core.TicketNumberString) ([]JournalEntry, error) {
	return j.read(ctx, BuildReaderJournalFilter(ticketNumber))
}

func (j *Journal) read(ctx context.Context, filter eventstore.Filter) ([]JournalEntry, error) {
	storableEvents, _, err := j.eventStore.Query(ctx, filter)
	if err != nil {
		return nil, errors.Join(ErrReadingJournalFailed, err)
	}

	entries := make([]JournalEntry, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		event, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, errors.Join(ErrReadingJournalFailed, err)
		}

		metadata, err := EventMetadataFrom(storableEvent)
		if err != nil {
			return nil, errors.Join(ErrReadingJournalFailed, err)
		}

		entries = append(entries, JournalEntry{
			SequenceNumber: storableEvent.SequenceNumber,
			Event:          event,
			Metadata:       metadata,
		})
	}

	return entries, nil
}
