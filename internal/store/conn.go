package store

import (
	"context"
	"database/sql"
)

type ctxKey string

const dbConnKey ctxKey = "dbconn"

// Querier is the subset of database/sql the store needs.
// *sql.DB and *sql.Conn both satisfy it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Acquire takes a dedicated connection for the lifetime of one request and
// returns a context carrying it. The caller must Close the connection.
func Acquire(ctx context.Context, db *sql.DB) (*sql.Conn, context.Context, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, ctx, err
	}
	return conn, context.WithValue(ctx, dbConnKey, conn), nil
}

// ConnFromContext returns the request connection, if any
func ConnFromContext(ctx context.Context) (*sql.Conn, bool) {
	c, ok := ctx.Value(dbConnKey).(*sql.Conn)
	return c, ok
}

// querier prefers the request connection and falls back to the database
func (s *Store) querier(ctx context.Context) Querier {
	if c, ok := ConnFromContext(ctx); ok {
		return c
	}
	return s.db
}
