package memengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/eventstore/memengine"
)

func Test_EventStore_Append_And_Query_All(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEmptyEventStore(t)
	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	// act
	firstErr := es.Append(ctx, filter, 0,
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-1", "ReaderTicket": "123"}`),
	)
	secondErr := es.Append(ctx, filter, 1,
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-2", "ReaderTicket": "123"}`),
	)
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)

	events, maxSeq, err := es.Query(ctx, filter)

	// assert
	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, uint(2), maxSeq)
	assert.Equal(t, uint(1), events[0].SequenceNumber)
	assert.Equal(t, uint(2), events[1].SequenceNumber)
	assert.Equal(t, 2, es.Len())
}

func Test_EventStore_Query_FiltersByEventTypeAndPredicate(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEmptyEventStore(t)

	givenAppended(t, es,
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-1", "ReaderTicket": "123"}`),
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-2", "ReaderTicket": "456"}`),
		givenStorableEvent(t, "BookReturnedByReader", `{"BookID": "b-1", "ReaderTicket": "123"}`),
	)

	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookIssuedToReader").
		AndAnyPredicateOf(eventstore.P("ReaderTicket", "123")).
		Finalize()

	// act
	events, maxSeq, err := es.Query(ctx, filter)

	// assert
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, uint(1), maxSeq)
	assert.JSONEq(t, `{"BookID": "b-1", "ReaderTicket": "123"}`, string(events[0].PayloadJSON))
}

func Test_EventStore_Query_AllPredicatesMustMatch(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEmptyEventStore(t)

	givenAppended(t, es,
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-1", "ReaderTicket": "123"}`),
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-1", "ReaderTicket": "456"}`),
	)

	filter := eventstore.BuildEventFilter().
		Matching().
		AllPredicatesOf(eventstore.P("BookID", "b-1"), eventstore.P("ReaderTicket", "456")).
		Finalize()

	// act
	events, maxSeq, err := es.Query(ctx, filter)

	// assert
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, uint(2), maxSeq)
}

func Test_EventStore_Append_ConcurrencyConflict(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEmptyEventStore(t)
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", "b-1")).
		Finalize()

	_, staleMaxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)
	require.NoError(t, es.Append(ctx, filter, staleMaxSeq,
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-1", "ReaderTicket": "123"}`),
	))

	// act
	err = es.Append(ctx, filter, staleMaxSeq,
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-1", "ReaderTicket": "456"}`),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 1, es.Len(), "nothing should be appended on conflict")
}

func Test_EventStore_Append_UnrelatedEventsDoNotConflict(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEmptyEventStore(t)
	filterBook1 := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("BookID", "b-1")).Finalize()
	filterBook2 := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("BookID", "b-2")).Finalize()

	require.NoError(t, es.Append(ctx, filterBook2, 0,
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-2", "ReaderTicket": "123"}`),
	))

	// act
	err := es.Append(ctx, filterBook1, 0,
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-1", "ReaderTicket": "123"}`),
	)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, es.Len())
}

func Test_EventStore_Append_CanceledContext(t *testing.T) {
	// arrange
	es := givenEmptyEventStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	err := es.Append(ctx, eventstore.BuildEventFilter().MatchingAnyEvent(), 0,
		givenStorableEvent(t, "BookIssuedToReader", `{"BookID": "b-1", "ReaderTicket": "123"}`),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrAppendingEventFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, es.Len())
}

func Test_EventStore_Query_CanceledContext(t *testing.T) {
	// arrange
	es := givenEmptyEventStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	_, _, err := es.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())

	// assert
	assert.ErrorIs(t, err, eventstore.ErrQueryingEventsFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func givenEmptyEventStore(t *testing.T) *memengine.EventStore {
	t.Helper()

	es, err := memengine.NewEventStore()
	require.NoError(t, err)

	return es
}

func givenStorableEvent(t *testing.T, eventType string, payload string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEvent(eventType, time.Now(), []byte(payload), []byte(`{}`))
	require.NoError(t, err)

	return event
}

func givenAppended(t *testing.T, es *memengine.EventStore, events ...eventstore.StorableEvent) {
	t.Helper()

	anyEvent := eventstore.BuildEventFilter().MatchingAnyEvent()

	for _, event := range events {
		_, maxSeq, err := es.Query(context.Background(), anyEvent)
		require.NoError(t, err)
		require.NoError(t, es.Append(context.Background(), anyEvent, maxSeq, event))
	}
}
