package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/smolrome/DailyTimeRecord/internal/db"
)

// FailOnNthExecUoW wraps a real unit of work and makes the FailOn-th write
// (counted from 1) return Err, so a save can be broken after some rows are
// already written. Reads are not counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &writeCounter{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type writeCounter struct {
	db.DBTX
	writes atomic.Int32
	failOn int32
	err    error
}

func (w *writeCounter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if w.writes.Add(1) == w.failOn {
		return nil, w.err
	}
	return w.DBTX.ExecContext(ctx, query, args...)
}
