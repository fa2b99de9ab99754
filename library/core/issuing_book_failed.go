package core

import (
	"time"
)

// IssuingBookFailedEventType is the event type identifier.
const IssuingBookFailedEventType = "IssuingBookFailed"

// IssuingBookFailed represents an issue attempt that changed nothing.
// Outcome holds the Outcome's string form.
type IssuingBookFailed struct {
	Title        string
	ReaderTicket TicketNumberString
	ReaderName   string
	Outcome      string
	FailureInfo  string
	OccurredAt   OccurredAt
}

// BuildIssuingBookFailed creates a new IssuingBookFailed event.
func BuildIssuingBookFailed(
	title string,
	reader Reader,
	outcome Outcome,
	failureInfo string,
	occurredAt time.Time,
) IssuingBookFailed {

	return IssuingBookFailed{
		Title:        title,
		ReaderTicket: reader.TicketNumber,
		ReaderName:   reader.FullName(),
		Outcome:      outcome.String(),
		FailureInfo:  failureInfo,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

func (e IssuingBookFailed) EventType() EventTypeString {
	return IssuingBookFailedEventType
}

func (e IssuingBookFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e IssuingBookFailed) IsErrorEvent() bool {
	return true
}

func (e IssuingBookFailed) ConcernsReader() TicketNumberString {
	return e.ReaderTicket
}
