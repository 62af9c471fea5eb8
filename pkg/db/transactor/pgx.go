package transactor

import (
	"context"

	"github.com/jackc/pgtype/pgxtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type pgxTxKey struct{}

func pgxTxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(pgxTxKey{}).(pgx.Tx)
	return tx, ok
}

type pgxTransactor struct {
	pool *pgxpool.Pool
}

// NewPgxTransactor builds read committed Transactor over pool
func NewPgxTransactor(p *pgxpool.Pool) Transactor {
	return &pgxTransactor{pool: p}
}

func (t *pgxTransactor) WithinTransaction(ctx context.Context, txFunc func(context.Context) error) (err error) {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	return txFunc(context.WithValue(ctx, pgxTxKey{}, tx))
}

// PgxExecutor picks transaction from context or falls back to pool
type PgxExecutor interface {
	Executor(context.Context) pgxtype.Querier
}

type pgxExecutor struct {
	pool *pgxpool.Pool
}

// NewPgxExecutor builds PgxExecutor for pool
func NewPgxExecutor(p *pgxpool.Pool) PgxExecutor {
	return &pgxExecutor{pool: p}
}

func (e *pgxExecutor) Executor(ctx context.Context) pgxtype.Querier {
	if tx, ok := pgxTxFromContext(ctx); ok {
		return tx
	}
	return e.pool
}
