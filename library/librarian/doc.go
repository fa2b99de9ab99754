// Package librarian coordinates the catalog, the ledger and the journal at the circulation desk.
//
// Each request is handled in three steps, like a command handler: gather the current state,
// let a pure decide function pick the outcome and the event to journal, then journal the event
// and apply the state change. Business failures are outcomes (core.Unavailable, core.NotFound,
// core.NotIssued) and leave catalog and ledger untouched; errors are reserved for invalid
// requests and infrastructure failures.
package librarian
