package librarian

import (
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

var (
	// ErrNoSuchTitle is the reason for core.NotFound.
	ErrNoSuchTitle = errors.New("no book in the catalog matches the title")

	// ErrNoCopyAvailable is the reason for core.Unavailable.
	ErrNoCopyAvailable = errors.New("every matching book is issued")

	// ErrNotIssuedToReader is the reason for core.NotIssued.
	ErrNotIssuedToReader = errors.New("book is not issued to the reader")
)

// DecideIssue picks the book to issue among the title search results.
// This is a pure function: candidates are the catalog's matches in catalog order.
//
// Business Rules:
//
//	GIVEN: The books whose title contains the requested title
//	WHEN: IssueBook command is received
//	THEN: BookIssuedToReader for the first available candidate
//	FAILURE: NotFound if there are no candidates
//	FAILURE: Unavailable if no candidate is available
func DecideIssue(candidates []core.Book, command IssueBook) core.DecisionResult {
	if len(candidates) == 0 {
		return issueFailure(command, core.NotFound, ErrNoSuchTitle)
	}

	for _, book := range candidates {
		if book.Available {
			return core.SuccessDecision(
				core.Issued,
				core.BuildBookIssuedToReader(book, command.Reader, command.OccurredAt))
		}
	}

	return issueFailure(command, core.Unavailable, ErrNoCopyAvailable)
}

// DecideReturn decides whether the reader can return the book.
// book is the exact-title match (nil if there is none), activeRecord the ledger's
// active record for that book, whichever reader holds it (nil if there is none).
//
// Business Rules:
//
//	GIVEN: The exact-title book and its active issue record
//	WHEN: ReturnBook command is received
//	THEN: BookReturnedByReader if the book is issued to this reader
//	FAILURE: NotFound if no book has that exact title
//	FAILURE: NotIssued if the book is available, or issued to another reader
func DecideReturn(book *core.Book, activeRecord *core.IssueRecord, command ReturnBook) core.DecisionResult {
	if book == nil {
		return returnFailure(command, core.NotFound, ErrNoSuchTitle)
	}

	if book.Available || activeRecord == nil || !activeRecord.Matches(book.BookID, command.Reader.TicketNumber) {
		return returnFailure(command, core.NotIssued, ErrNotIssuedToReader)
	}

	return core.SuccessDecision(
		core.Returned,
		core.BuildBookReturnedByReader(*book, command.Reader, command.OccurredAt))
}

func issueFailure(command IssueBook, outcome core.Outcome, reason error) core.DecisionResult {
	return core.FailureDecision(
		outcome,
		core.BuildIssuingBookFailed(command.Title, command.Reader, outcome, reason.Error(), command.OccurredAt),
		reason)
}

func returnFailure(command ReturnBook, outcome core.Outcome, reason error) core.DecisionResult {
	return core.FailureDecision(
		outcome,
		core.BuildReturningBookFailed(command.Title, command.Reader, outcome, reason.Error(), command.OccurredAt),
		reason)
}
