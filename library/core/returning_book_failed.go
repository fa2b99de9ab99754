package core

import (
	"time"
)

// ReturningBookFailedEventType is the event type identifier.
const ReturningBookFailedEventType = "ReturningBookFailed"

// ReturningBookFailed represents a return attempt that changed nothing.
type ReturningBookFailed struct {
	Title        string
	ReaderTicket TicketNumberString
	ReaderName   string
	Outcome      string
	FailureInfo  string
	OccurredAt   OccurredAt
}

// BuildReturningBookFailed creates a new ReturningBookFailed event.
func BuildReturningBookFailed(
	title string,
	reader Reader,
	outcome Outcome,
	failureInfo string,
	occurredAt time.Time,
) ReturningBookFailed {

	return ReturningBookFailed{
		Title:        title,
		ReaderTicket: reader.TicketNumber,
		ReaderName:   reader.FullName(),
		Outcome:      outcome.String(),
		FailureInfo:  failureInfo,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

func (e ReturningBookFailed) EventType() EventTypeString {
	return ReturningBookFailedEventType
}

func (e ReturningBookFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReturningBookFailed) IsErrorEvent() bool {
	return true
}

func (e ReturningBookFailed) ConcernsReader() TicketNumberString {
	return e.ReaderTicket
}
