package repository

import (
	"context"
	"fmt"
)

type change struct {
	desc      string
	apply     func(context.Context) (int64, error)
	committed func()
}

// changeTracker keeps changes staged by repositories of the same unit of work
type changeTracker struct {
	changes []change
	closed  bool
}

func (t *changeTracker) ensureOpen() error {
	if t.closed {
		return ErrUnitOfWorkClosed
	}
	return nil
}

func (t *changeTracker) track(desc string, apply func(context.Context) (int64, error)) error {
	return t.trackWithCommit(desc, apply, nil)
}

// trackWithCommit stages change, committed is called only once transaction it was applied in is committed
func (t *changeTracker) trackWithCommit(desc string, apply func(context.Context) (int64, error), committed func()) error {
	if err := t.ensureOpen(); err != nil {
		return err
	}
	t.changes = append(t.changes, change{desc: desc, apply: apply, committed: committed})
	return nil
}

// commit notifies applied changes about successful commit and clears them
func (t *changeTracker) commit() {
	for _, ch := range t.changes {
		if ch.committed != nil {
			ch.committed()
		}
	}
	t.clear()
}

func (t *changeTracker) clear() {
	t.changes = nil
}

func (t *changeTracker) pending() int {
	return len(t.changes)
}

// flush applies staged changes in order, returns total number of affected rows
func (t *changeTracker) flush(ctx context.Context) (int64, error) {
	var affected int64
	for _, ch := range t.changes {
		n, err := ch.apply(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to %s - %w", ch.desc, err)
		}
		affected += n
	}
	return affected, nil
}

func (t *changeTracker) close() {
	t.changes = nil
	t.closed = true
}
