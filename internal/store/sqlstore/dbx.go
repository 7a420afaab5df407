package sqlstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// DBTX is what the store runs statements on: *sql.DB or *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txOptions returns the options for a transaction of the given kind. SQLite
// runs on a single connection, so every transaction there is already
// serialized and the driver default is used.
func (s *Store) txOptions(readOnly bool) *sql.TxOptions {
	if s.dialect != Postgres {
		return nil
	}
	if readOnly {
		// One snapshot for every statement in the transaction.
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

// withTx runs fn in a transaction, committing on success and rolling back
// on error or panic. Panics are rethrown; typed store errors from fn are
// returned as is.
func (s *Store) withTx(ctx context.Context, readOnly bool, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := s.db.BeginTx(ctx, s.txOptions(readOnly))
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = errors.Wrap(cerr, "failed to commit transaction")
		}
	}()

	return fn(ctx, tx)
}
