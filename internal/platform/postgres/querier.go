// Copyright (c) 2026 Folioworks. All rights reserved.

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx execution methods shared by [pgxpool.Pool]
// and [pgx.Tx].
//
// Store methods accept a Querier instead of holding the pool directly, so the
// same query code runs either standalone or inside a transaction opened by
// the [Runner]. Which one a caller receives is decided entirely by
// [Runner.WithOptionalTx].
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner is a [Querier] that can also open transactions, satisfied by
// [pgxpool.Pool]. It exists so the runner can be unit-tested without a
// live pool.
type Beginner interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}
