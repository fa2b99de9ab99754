package shell

import "errors"

var (
	// ErrNilEventStore is returned when a Journal is built without an event store.
	ErrNilEventStore = errors.New("event store must not be nil")

	// ErrRecordingJournalEntryFailed wraps every failure of Journal.Record.
	ErrRecordingJournalEntryFailed = errors.New("recording journal entry failed")

	// ErrReadingJournalFailed wraps every failure of Journal.History and Journal.HistoryOfReader.
	ErrReadingJournalFailed = errors.New("reading journal failed")
)
