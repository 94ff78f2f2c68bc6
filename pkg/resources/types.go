package resources

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	_ StopFn = StopNothing
)

// DBInstance is the subset of *pgxpool.Pool the repositories use. pgxmock pools satisfy it too.
type DBInstance interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type Closable interface {
	Close()
}

// StopFn releases a resource, waiting at most timeout.
type StopFn func(ctx context.Context, timeout time.Duration)

func StopNothing(_ context.Context, _ time.Duration) {}
