// Package core contains the records, outcomes and domain events of the library circulation desk.
//
// Books, readers and issue records are plain values. Matching between them always goes through
// stable keys (BookID, TicketNumber), never through shared references.
//
// Every issue or return attempt produces exactly one domain event: a success event when state
// changed, a failure event otherwise. The events feed the transaction journal.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
