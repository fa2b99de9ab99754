// Package eventstore provides the storage abstractions behind the library's transaction journal.
//
// Every issue and return attempt at the circulation desk is written as an event to an
// append-only journal. This package defines the engine-agnostic pieces shared by the
// journal engines (memengine, postgresengine):
//   - StorableEvent: the scalar DTO an engine persists and returns
//   - Filter: which journal entries a query (or a consistency check) covers
//   - sentinel errors and the observability interfaces engines accept
//
// Common usage pattern:
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(BookIssuedToReaderEventType, BookReturnedByReaderEventType).
//		AndAnyPredicateOf(P("BookID", bookID.String())).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	err = store.Append(ctx, filter, maxSeq, entry)
//
// The journal is only read back for reporting. It is never replayed to rebuild the
// catalog or the ledger.
package eventstore
