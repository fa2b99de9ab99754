package adapters

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBAdapter is all the journal engine asks of a connection: run a select, run a statement.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

// DBRows iterates query results. *sql.Rows satisfies it as is.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

// DBResult reports the outcome of an Exec. sql.Result satisfies it as is.
type DBResult interface {
	RowsAffected() (int64, error)
}

// stdAdapter serves both database/sql and sqlx, which share *sql.Rows and sql.Result.
type stdAdapter struct {
	query func(ctx context.Context, query string) (*sql.Rows, error)
	exec  func(ctx context.Context, query string) (sql.Result, error)
}

// NewSQLAdapter adapts a sql.DB, usually opened with the lib/pq driver.
func NewSQLAdapter(db *sql.DB) DBAdapter {
	return stdAdapter{
		query: func(ctx context.Context, query string) (*sql.Rows, error) {
			return db.QueryContext(ctx, query)
		},
		exec: func(ctx context.Context, query string) (sql.Result, error) {
			return db.ExecContext(ctx, query)
		},
	}
}

// NewSQLXAdapter adapts a sqlx.DB. Selects go through Queryx.
func NewSQLXAdapter(db *sqlx.DB) DBAdapter {
	return stdAdapter{
		query: func(ctx context.Context, query string) (*sql.Rows, error) {
			rows, err := db.QueryxContext(ctx, query)
			if err != nil {
				return nil, err
			}

			return rows.Rows, nil
		},
		exec: func(ctx context.Context, query string) (sql.Result, error) {
			return db.ExecContext(ctx, query)
		},
	}
}

func (a stdAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.query(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (a stdAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return a.exec(ctx, query)
}
