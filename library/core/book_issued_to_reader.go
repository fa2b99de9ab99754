package core

import (
	"time"

	"github.com/google/uuid"
)

// BookIssuedToReaderEventType is the event type identifier.
const BookIssuedToReaderEventType = "BookIssuedToReader"

// BookIssuedToReader represents when a book is issued to a reader.
type BookIssuedToReader struct {
	BookID       uuid.UUID
	Title        string
	ReaderTicket TicketNumberString
	ReaderName   string
	OccurredAt   OccurredAt
}

// BuildBookIssuedToReader creates a new BookIssuedToReader event.
func BuildBookIssuedToReader(book Book, reader Reader, occurredAt time.Time) BookIssuedToReader {
	return BookIssuedToReader{
		BookID:       book.BookID,
		Title:        book.Title,
		ReaderTicket: reader.TicketNumber,
		ReaderName:   reader.FullName(),
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

func (e BookIssuedToReader) EventType() EventTypeString {
	return BookIssuedToReaderEventType
}

func (e BookIssuedToReader) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookIssuedToReader) IsErrorEvent() bool {
	return false
}

func (e BookIssuedToReader) ConcernsReader() TicketNumberString {
	return e.ReaderTicket
}
