// Package ledger records which books are currently issued to which readers.
//
// The ledger only stores keys and display fields; it never looks into the catalog.
// Presentation of the issued books lives in the report package.
package ledger

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	logMsgRecordedIssued   = "ledger recorded issued book"
	logMsgRecordedReturned = "ledger recorded returned book"
	logMsgNoActiveRecord   = "ledger has no active record to return"
	logAttrBookID          = "book_id"
	logAttrReaderTicket    = "reader_ticket"
	logAttrActiveRecords   = "active_records"
)

// Notifier receives a notice for every ledger change.
type Notifier interface {
	BookIssued(record core.IssueRecord)
	BookReturned(record core.IssueRecord)
}

// Ledger holds the active issue records in insertion order. Not safe for concurrent use.
type Ledger struct {
	records  []core.IssueRecord
	notifier Notifier
	logger   eventstore.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithNotifier sets the receiver of issue and return notices. Without one the ledger is silent.
func WithNotifier(notifier Notifier) Option {
	return func(l *Ledger) {
		l.notifier = notifier
	}
}

// WithLogger sets a logger for ledger changes.
func WithLogger(logger eventstore.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

func New(opts ...Option) *Ledger {
	l := &Ledger{}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// RecordIssued appends an issue record and emits a notice.
func (l *Ledger) RecordIssued(book core.Book, reader core.Reader, issuedAt time.Time) core.IssueRecord {
	record := core.BuildIssueRecord(book, reader, issuedAt)
	l.records = append(l.records, record)

	if l.logger != nil {
		l.logger.Info(
			logMsgRecordedIssued,
			logAttrBookID, record.BookID.String(),
			logAttrReaderTicket, record.ReaderTicket,
			logAttrActiveRecords, len(l.records),
		)
	}

	if l.notifier != nil {
		l.notifier.BookIssued(record)
	}

	return record
}

// RecordReturned removes the first record matching both keys and emits a notice.
// It reports false, and stays silent, when there is no such record.
func (l *Ledger) RecordReturned(bookID uuid.UUID, ticketNumber core.TicketNumberString) (core.IssueRecord, bool) {
	idx := slices.IndexFunc(l.records, func(r core.IssueRecord) bool {
		return r.Matches(bookID, ticketNumber)
	})

	if idx < 0 {
		if l.logger != nil {
			l.logger.Debug(logMsgNoActiveRecord, logAttrBookID, bookID.String(), logAttrReaderTicket, ticketNumber)
		}

		return core.IssueRecord{}, false
	}

	record := l.records[idx]
	l.records = slices.Delete(l.records, idx, idx+1)

	if l.logger != nil {
		l.logger.Info(
			logMsgRecordedReturned,
			logAttrBookID, record.BookID.String(),
			logAttrReaderTicket, record.ReaderTicket,
			logAttrActiveRecords, len(l.records),
		)
	}

	if l.notifier != nil {
		l.notifier.BookReturned(record)
	}

	return record, true
}

// ListIssued returns a copy of the active records.
func (l *Ledger) ListIssued() []core.IssueRecord {
	return slices.Clone(l.records)
}

// IssuedTo returns the active record for bookID, whichever reader holds it.
func (l *Ledger) IssuedTo(bookID uuid.UUID) (core.IssueRecord, bool) {
	idx := slices.IndexFunc(l.records, func(r core.IssueRecord) bool {
		return r.BookID == bookID
	})

	if idx < 0 {
		return core.IssueRecord{}, false
	}

	return l.records[idx], true
}

func (l *Ledger) Count() int {
	return len(l.records)
}
