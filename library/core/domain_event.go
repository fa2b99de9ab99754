package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is something that happened at the circulation desk.
type DomainEvent interface {
	// EventType returns the string identifier for this event type.
	EventType() EventTypeString

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// IsErrorEvent returns true if the attempt had no effect.
	IsErrorEvent() bool

	// ConcernsReader returns the ticket number of the reader involved.
	ConcernsReader() TicketNumberString
}

// AllEventTypes lists every event type the journal stores.
func AllEventTypes() []EventTypeString {
	return []EventTypeString{
		BookIssuedToReaderEventType,
		BookReturnedByReaderEventType,
		IssuingBookFailedEventType,
		ReturningBookFailedEventType,
	}
}
