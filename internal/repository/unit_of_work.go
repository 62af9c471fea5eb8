package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	apperrors "github.com/umalmyha/customers/internal/errors"
	"github.com/umalmyha/customers/pkg/db/transactor"
)

const saveChangesOp = "save changes"

// classifier converts engine error into StorageErr recognizing engine specific constraint violations
type classifier func(op string, err error) *apperrors.StorageErr

type unitOfWork struct {
	trx       transactor.Transactor
	tracker   *changeTracker
	customers CustomerRepository
	classify  classifier
	logger    logrus.FieldLogger
}

func (u *unitOfWork) Customers() CustomerRepository {
	return u.customers
}

// SaveChanges commits all staged changes within single transaction
func (u *unitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	if err := u.tracker.ensureOpen(); err != nil {
		u.logger.WithError(err).Error("an error occurred while saving changes to the database")
		return 0, apperrors.NewStorageErr(saveChangesOp, err)
	}

	if u.tracker.pending() == 0 {
		return 0, nil
	}

	var affected int64
	err := u.trx.WithinTransaction(ctx, func(txCtx context.Context) error {
		n, err := u.tracker.flush(txCtx)
		if err != nil {
			return err
		}
		affected = n
		return nil
	})
	if err != nil {
		u.logger.WithError(err).Error("an error occurred while saving changes to the database")
		return 0, u.classify(saveChangesOp, err)
	}

	u.tracker.commit()
	return affected, nil
}

// Close discards staged changes, unit of work can't be used afterwards
func (u *unitOfWork) Close() error {
	if err := u.tracker.ensureOpen(); err != nil {
		return err
	}

	if n := u.tracker.pending(); n > 0 {
		u.logger.Debugf("unit of work closed with %d unsaved changes", n)
	}
	u.tracker.close()
	return nil
}
