// Package adapters hides the three supported Postgres client libraries (pgxpool, database/sql, sqlx)
// behind DBAdapter so the journal engine builds its SQL once.
package adapters
