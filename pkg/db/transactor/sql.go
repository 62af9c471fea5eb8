package transactor

import (
	"context"
	"database/sql"
)

type sqlTxKey struct{}

func sqlTxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(sqlTxKey{}).(*sql.Tx)
	return tx, ok
}

type sqlTransactor struct {
	db *sql.DB
}

// NewSQLTransactor builds Transactor over database/sql db
func NewSQLTransactor(db *sql.DB) Transactor {
	return &sqlTransactor{db: db}
}

func (t *sqlTransactor) WithinTransaction(ctx context.Context, txFunc func(context.Context) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return txFunc(context.WithValue(ctx, sqlTxKey{}, tx))
}

// SQLQuerier is satisfied by both *sql.DB and *sql.Tx
type SQLQuerier interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// SQLExecutor picks transaction from context or falls back to db
type SQLExecutor interface {
	Executor(context.Context) SQLQuerier
}

type sqlExecutor struct {
	db *sql.DB
}

// NewSQLExecutor builds SQLExecutor for db
func NewSQLExecutor(db *sql.DB) SQLExecutor {
	return &sqlExecutor{db: db}
}

func (e *sqlExecutor) Executor(ctx context.Context) SQLQuerier {
	if tx, ok := sqlTxFromContext(ctx); ok {
		return tx
	}
	return e.db
}
