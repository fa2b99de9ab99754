package core

import (
	"time"
)

// TicketNumberString is a reader's library ticket number, the reader's stable key.
type TicketNumberString = string

// ISBNString represents an ISBN identifier.
type ISBNString = string

// EventTypeString names a domain event type.
type EventTypeString = string

// OccurredAt represents when something happened at the desk.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}
