package eventstore

import (
	"errors"
)

var (
	// ErrEmptyEventsTableName is returned when an engine is configured with an empty table name.
	ErrEmptyEventsTableName = errors.New("empty events table name supplied")

	// ErrNilDatabaseConnection is returned when an engine is constructed without a connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrConcurrencyConflict is returned when the expected max sequence number no longer matches.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrQueryingEventsFailed wraps driver errors during Query.
	ErrQueryingEventsFailed = errors.New("querying events failed")

	// ErrScanningDBRowFailed wraps row scan errors during Query.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrBuildingStorableEventFailed wraps invalid rows read back from an engine.
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")

	// ErrBuildingQueryFailed wraps SQL builder errors.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrAppendingEventFailed wraps driver errors during Append.
	ErrAppendingEventFailed = errors.New("appending the event failed")

	// ErrGettingRowsAffectedFailed wraps driver errors when reading the affected rows count.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")

	// ErrCreatingTableFailed wraps driver errors during schema creation.
	ErrCreatingTableFailed = errors.New("creating events table failed")
)

// MaxSequenceNumberUint is the highest sequence number among the events a Filter matched.
// It is the optimistic concurrency token handed back to Append.
type MaxSequenceNumberUint = uint
