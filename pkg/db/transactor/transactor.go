// Package transactor runs functions within single database transaction.
// Transaction is carried by context passed to the function, executors pick it from there.
package transactor

import (
	"context"
)

// Transactor commits transaction if txFunc succeeds and rolls it back otherwise
type Transactor interface {
	WithinTransaction(ctx context.Context, txFunc func(txCtx context.Context) error) error
}
