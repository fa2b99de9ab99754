package librarian

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	// IssueBookCommandType names the IssueBook command in logs, metrics and spans.
	IssueBookCommandType = "IssueBook"

	// ReturnBookCommandType names the ReturnBook command in logs, metrics and spans.
	ReturnBookCommandType = "ReturnBook"
)

// IssueBook represents the intent to lend a book with the given title to a reader.
type IssueBook struct {
	Title      string
	Reader     core.Reader
	OccurredAt core.OccurredAt
}

// BuildIssueBook creates a new IssueBook command.
func BuildIssueBook(title string, reader core.Reader, occurredAt time.Time) IssueBook {
	return IssueBook{
		Title:      title,
		Reader:     reader,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

func (c IssueBook) CommandType() string {
	return IssueBookCommandType
}

// ReturnBook represents the intent to take back a book with the given title from a reader.
type ReturnBook struct {
	Title      string
	Reader     core.Reader
	OccurredAt core.OccurredAt
}

// BuildReturnBook creates a new ReturnBook command.
func BuildReturnBook(title string, reader core.Reader, occurredAt time.Time) ReturnBook {
	return ReturnBook{
		Title:      title,
		Reader:     reader,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

func (c ReturnBook) CommandType() string {
	return ReturnBookCommandType
}
