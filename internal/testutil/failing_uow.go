package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/casebridge/casebridge/internal/db"
)

// FailOnNthWriteUoW injects Err on the Nth ExecContext inside a transaction,
// counting from 1. Reads are not counted. Used to check that a half-written
// scope replacement leaves the cache as it was.
type FailOnNthWriteUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(ctx, &failingWrites{DBTX: tx, failOn: u.FailOn, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingWrites struct {
	db.DBTX
	count  int
	failOn int
	err    error
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.count++
	if f.count == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
