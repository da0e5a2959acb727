// Package db loads the snapshot datasets from PostgreSQL. The engine never
// sees SQL: the sync job materializes query-shaped views (one per dataset)
// in the configured schema, and the repositories here only scan them into
// the row structs.
//
// All repositories accept a DBTX interface satisfied by both *pgxpool.Pool
// and pgx.Tx.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
