package core

import (
	"time"

	"github.com/google/uuid"
)

// BookReturnedByReaderEventType is the event type identifier.
const BookReturnedByReaderEventType = "BookReturnedByReader"

// BookReturnedByReader represents when a reader returns an issued book.
type BookReturnedByReader struct {
	BookID       uuid.UUID
	Title        string
	ReaderTicket TicketNumberString
	ReaderName   string
	OccurredAt   OccurredAt
}

// BuildBookReturnedByReader creates a new BookReturnedByReader event.
func BuildBookReturnedByReader(book Book, reader Reader, occurredAt time.Time) BookReturnedByReader {
	return BookReturnedByReader{
		BookID:       book.BookID,
		Title:        book.Title,
		ReaderTicket: reader.TicketNumber,
		ReaderName:   reader.FullName(),
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

func (e BookReturnedByReader) EventType() EventTypeString {
	return BookReturnedByReaderEventType
}

func (e BookReturnedByReader) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookReturnedByReader) IsErrorEvent() bool {
	return false
}

func (e BookReturnedByReader) ConcernsReader() TicketNumberString {
	return e.ReaderTicket
}
