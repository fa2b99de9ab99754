// Package report renders the desk's state and outcomes as the line-oriented Russian text the
// demo prints. It only reads from the catalog, the ledger and the journal; nothing here mutates them.
package report
