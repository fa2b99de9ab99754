package core

import (
	"github.com/google/uuid"
)

// IssueRecord is an active loan in the ledger. It holds the keys of the book and the reader
// plus the display fields the issued-books listing needs.
type IssueRecord struct {
	BookID       uuid.UUID
	Title        string
	ReaderTicket TicketNumberString
	ReaderName   string
	IssuedAt     OccurredAt
}

// BuildIssueRecord creates the IssueRecord for issuing book to reader at issuedAt.
func BuildIssueRecord(book Book, reader Reader, issuedAt OccurredAt) IssueRecord {
	return IssueRecord{
		BookID:       book.BookID,
		Title:        book.Title,
		ReaderTicket: reader.TicketNumber,
		ReaderName:   reader.FullName(),
		IssuedAt:     ToOccurredAt(issuedAt),
	}
}

// Matches reports whether the record links the given book and reader.
func (r IssueRecord) Matches(bookID uuid.UUID, ticketNumber TicketNumberString) bool {
	return r.BookID == bookID && r.ReaderTicket == ticketNumber
}
