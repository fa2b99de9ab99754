package memengine

import (
	"context"
	"errors"
	"slices"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

const (
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventAppended       = "eventstore operation: event appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logMsgDecodePayloadFailed = "failed to decode event payload for predicate matching"
	logAttrEventCount         = "event_count"
	logAttrEventType          = "event_type"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
	logAttrSequenceNumber     = "sequence_number"
	logAttrError              = "error"
)

// EventStore keeps appended events in insertion order and numbers them from 1.
type EventStore struct {
	events []eventstore.StorableEvent
	logger eventstore.Logger
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithLogger sets the logger for the EventStore.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// NewEventStore creates an empty in-memory EventStore.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{
		events: make([]eventstore.StorableEvent, 0),
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns all events matching the filter in sequence order,
// together with the highest sequence number among them (0 if none matched).
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	matched, maxSequenceNumber := es.matching(filter)

	if es.logger != nil {
		es.logger.Debug(logMsgQueryCompleted, logAttrEventCount, len(matched))
	}

	return matched, maxSequenceNumber, nil
}

// Append appends the event if the filter still yields expectedMaxSequenceNumber,
// otherwise it returns eventstore.ErrConcurrencyConflict and appends nothing.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvent eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	_, actualMaxSequenceNumber := es.matching(filter)
	if actualMaxSequenceNumber != expectedMaxSequenceNumber {
		if es.logger != nil {
			es.logger.Info(
				logMsgConcurrencyConflict,
				logAttrExpectedSequence, expectedMaxSequenceNumber,
				logAttrActualSequence, actualMaxSequenceNumber,
			)
		}

		return eventstore.ErrConcurrencyConflict
	}

	sequenceNumber := uint(len(es.events) + 1)
	es.events = append(es.events, storableEvent.WithSequenceNumber(sequenceNumber))

	if es.logger != nil {
		es.logger.Info(logMsgEventAppended, logAttrEventType, storableEvent.EventType, logAttrSequenceNumber, sequenceNumber)
	}

	return nil
}

// Len returns the number of events in the store.
func (es *EventStore) Len() int {
	return len(es.events)
}

func (es *EventStore) matching(filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint) {
	matched := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, event := range es.events {
		if !es.matches(filter, event) {
			continue
		}

		matched = append(matched, event)
		maxSequenceNumber = event.SequenceNumber
	}

	return matched, maxSequenceNumber
}

func (es *EventStore) matches(filter eventstore.Filter, event eventstore.StorableEvent) bool {
	if filter.MatchesAnyEvent() {
		return true
	}

	var payload map[string]any
	decoded := false

	for _, item := range filter.Items() {
		if len(item.EventTypes()) > 0 && !slices.Contains(item.EventTypes(), event.EventType) {
			continue
		}

		if len(item.Predicates()) == 0 {
			return true
		}

		if !decoded {
			if err := jsoniter.ConfigFastest.Unmarshal(event.PayloadJSON, &payload); err != nil {
				if es.logger != nil {
					es.logger.Warn(logMsgDecodePayloadFailed, logAttrEventType, event.EventType, logAttrError, err.Error())
				}

				return false
			}

			decoded = true
		}

		if predicatesMatch(item, payload) {
			return true
		}
	}

	return false
}

func predicatesMatch(item eventstore.FilterItem, payload map[string]any) bool {
	for _, predicate := range item.Predicates() {
		val, ok := payload[predicate.Key()].(string)
		hit := ok && val == predicate.Val()

		if item.AllPredicatesMustMatch() && !hit {
			return false
		}

		if !item.AllPredicatesMustMatch() && hit {
			return true
		}
	}

	return item.AllPredicatesMustMatch()
}
