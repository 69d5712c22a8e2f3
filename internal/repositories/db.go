package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock satisfies
// it, so repository tests run without a live database.
type DB interface {
	Executor
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Executor is satisfied by both DB and pgx.Tx. Repository methods that must
// participate in a caller-owned transaction take an Executor explicitly.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
