// Package postgresengine provides a PostgreSQL journal engine.
//
// It stores the library's transaction journal in a single table and supports three connection
// types (pgxpool.Pool, sql.DB via lib/pq, sqlx.DB) behind one adapter interface. Appends are
// guarded by the same optimistic concurrency check as memengine: the insert only happens when
// the filter still yields the expected max sequence number.
//
// Usage:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("library_journal"),
//		postgresengine.WithLogger(logger),
//	)
//	_ = store.CreateTable(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
