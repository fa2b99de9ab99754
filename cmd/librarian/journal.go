package main

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/config"
)

// openEventStore creates the configured journal backend. The returned func releases its connections.
func openEventStore(ctx context.Context, cfg config.Config, logger eventstore.Logger) (shell.EventStore, func(), error) {
	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.JournalTable),
		postgresengine.WithLogger(logger),
	}

	switch cfg.Journal {
	case config.JournalPGX:
		pool, err := config.NewPGXPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewEventStoreFromPGXPool(pool, options...)

		return prepared(ctx, store, err, pool.Close)

	case config.JournalSQL:
		db, err := config.NewSQLDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewEventStoreFromSQLDB(db, options...)

		return prepared(ctx, store, err, func() { _ = db.Close() })

	case config.JournalSQLX:
		db, err := config.NewSQLXDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewEventStoreFromSQLX(db, options...)

		return prepared(ctx, store, err, func() { _ = db.Close() })

	default:
		store, err := memengine.NewEventStore(memengine.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}

		return store, func() {}, nil
	}
}

// prepared creates the journal table of a freshly connected Postgres store.
func prepared(
	ctx context.Context,
	store postgresengine.EventStore,
	err error,
	closeFn func(),
) (shell.EventStore, func(), error) {

	if err == nil {
		err = store.CreateTable(ctx)
	}

	if err != nil {
		closeFn()
		return nil, nil, err
	}

	return store, closeFn, nil
}
