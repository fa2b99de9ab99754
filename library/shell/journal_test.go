package shell_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
	"github.com/AntonStoeckl/library-circulation-go/testutil/helper"
)

func Test_NewJournal_RejectsNilEventStore(t *testing.T) {
	_, err := shell.NewJournal(nil)

	assert.ErrorIs(t, err, shell.ErrNilEventStore)
}

func Test_Journal_Record_And_History(t *testing.T) {
	// arrange
	ctx := context.Background()
	journal, _ := givenJournal(t)
	book, reader, otherReader := givenBookAndReaders()
	now := time.Date(2025, 3, 1, 10, 0, 0, 123456789, time.UTC)

	issued := core.BuildBookIssuedToReader(book, reader, now)
	failed := core.BuildIssuingBookFailed(book.Title, otherReader, core.Unavailable, "no copy available", now)
	returned := core.BuildBookReturnedByReader(book, reader, now.Add(time.Hour))

	// act
	require.NoError(t, journal.Record(ctx, issued))
	require.NoError(t, journal.Record(ctx, failed))
	require.NoError(t, journal.Record(ctx, returned))
	history, err := journal.History(ctx)

	// assert
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, issued, history[0].Event)
	assert.Equal(t, failed, history[1].Event)
	assert.Equal(t, returned, history[2].Event)
	assert.Equal(t, []uint{1, 2, 3}, sequenceNumbersOf(history))

	for _, entry := range history {
		assert.Equal(t, entry.Metadata.MessageID, entry.Metadata.CausationID)
		assert.Equal(t, entry.Metadata.MessageID, entry.Metadata.CorrelationID)
	}
}

func Test_Journal_HistoryOfReader(t *testing.T) {
	// arrange
	ctx := context.Background()
	journal, _ := givenJournal(t)
	book, reader, otherReader := givenBookAndReaders()
	now := time.Now()

	require.NoError(t, journal.Record(ctx, core.BuildBookIssuedToReader(book, reader, now)))
	require.NoError(t, journal.Record(ctx, core.BuildIssuingBookFailed(book.Title, otherReader, core.Unavailable, "", now)))
	require.NoError(t, journal.Record(ctx, core.BuildBookReturnedByReader(book, reader, now)))

	// act
	history, err := journal.HistoryOfReader(ctx, reader.TicketNumber)

	// assert
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.BookIssuedToReaderEventType, history[0].Event.EventType())
	assert.Equal(t, core.BookReturnedByReaderEventType, history[1].Event.EventType())
	assert.Equal(t, []uint{1, 3}, sequenceNumbersOf(history))
}

func Test_Journal_Record_SharesCorrelationIDFromContext(t *testing.T) {
	// arrange
	correlationID := uuid.New()
	ctx := shell.WithCorrelationID(context.Background(), correlationID)
	journal, _ := givenJournal(t)
	book, reader, _ := givenBookAndReaders()

	// act
	require.NoError(t, journal.Record(ctx, core.BuildBookIssuedToReader(book, reader, time.Now())))
	require.NoError(t, journal.Record(ctx, core.BuildBookReturnedByReader(book, reader, time.Now())))
	history, err := journal.History(ctx)

	// assert
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, correlationID.String(), history[0].Metadata.CorrelationID)
	assert.Equal(t, correlationID.String(), history[1].Metadata.CorrelationID)
	assert.NotEqual(t, history[0].Metadata.MessageID, history[1].Metadata.MessageID)
}

func Test_Journal_Record_RetriesOnConcurrencyConflict(t *testing.T) {
	// arrange
	store, err := memengine.NewEventStore()
	require.NoError(t, err)
	conflicting := &conflictingEventStore{EventStore: store, conflictsLeft: 2}
	logHandler := helper.NewTestLogHandler(false)
	spy := helper.NewMetricsCollectorSpy()

	journal, err := shell.NewJournal(
		conflicting,
		shell.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)),
		shell.WithJournalMetrics(spy),
		shell.WithJournalLogger(slog.New(logHandler)),
	)
	require.NoError(t, err)
	book, reader, _ := givenBookAndReaders()

	// act
	err = journal.Record(context.Background(), core.BuildBookIssuedToReader(book, reader, time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 3, conflicting.appendCalls)
	assert.True(t, spy.HasCounter(shell.JournalRetriesMetric, map[string]string{
		shell.LogAttrOperation: core.BookIssuedToReaderEventType,
	}))
	assert.True(t, logHandler.HasLog(slog.LevelDebug, shell.LogMsgJournalRetried))
}

func Test_Journal_Record_GivesUpAfterMaxAttempts(t *testing.T) {
	// arrange
	store, err := memengine.NewEventStore()
	require.NoError(t, err)
	conflicting := &conflictingEventStore{EventStore: store, conflictsLeft: 10}
	journal, err := shell.NewJournal(
		conflicting,
		shell.WithRetryOptions(shell.WithMaxAttempts(2), shell.WithBaseDelay(time.Millisecond)),
	)
	require.NoError(t, err)
	book, reader, _ := givenBookAndReaders()

	// act
	err = journal.Record(context.Background(), core.BuildBookIssuedToReader(book, reader, time.Now()))

	// assert
	assert.ErrorIs(t, err, shell.ErrRecordingJournalEntryFailed)
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 2, conflicting.appendCalls)
}

func Test_Journal_History_CanceledContext(t *testing.T) {
	// arrange
	journal, _ := givenJournal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	_, err := journal.History(ctx)

	// assert
	assert.ErrorIs(t, err, shell.ErrReadingJournalFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Journal_History_IgnoresForeignEventTypes(t *testing.T) {
	// arrange
	store, err := memengine.NewEventStore()
	require.NoError(t, err)
	journal, err := shell.NewJournal(store)
	require.NoError(t, err)

	unknown, err := eventstore.BuildStorableEvent("SomethingElse", time.Now(), []byte(`{}`), []byte(`{}`))
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 0, unknown))

	// act
	history, err := journal.History(context.Background())

	// assert
	require.NoError(t, err)
	assert.Empty(t, history)
}

func givenJournal(t *testing.T) (*shell.Journal, *memengine.EventStore) {
	t.Helper()

	store, err := memengine.NewEventStore()
	require.NoError(t, err)

	journal, err := shell.NewJournal(store)
	require.NoError(t, err)

	return journal, store
}

func givenBookAndReaders() (core.Book, core.Reader, core.Reader) {
	book := core.BuildBook("Гарри Поттер", "Дж. К. Роулинг", "Фэнтези", "978-5-389-07435-4")
	book.BookID = uuid.New()

	return book,
		core.BuildReader("Ернар", "Алимов", "T-001"),
		core.BuildReader("Айгерим", "Сапарова", "T-002")
}

func sequenceNumbersOf(entries []shell.JournalEntry) []uint {
	sequenceNumbers := make([]uint, 0, len(entries))
	for _, entry := range entries {
		sequenceNumbers = append(sequenceNumbers, entry.SequenceNumber)
	}

	return sequenceNumbers
}

// conflictingEventStore rejects the first conflictsLeft appends as if another desk had won the race.
type conflictingEventStore struct {
	*memengine.EventStore
	conflictsLeft int
	appendCalls   int
}

func (s *conflictingEventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvent eventstore.StorableEvent,
) error {

	s.appendCalls++

	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return eventstore.ErrConcurrencyConflict
	}

	return s.EventStore.Append(ctx, filter, expectedMaxSequenceNumber, storableEvent)
}
