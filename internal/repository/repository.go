package repository

import (
	"context"
	"errors"

	"github.com/umalmyha/customers/internal/model"
)

// ErrUnitOfWorkClosed is raised on any attempt to use unit of work after it was closed
var ErrUnitOfWorkClosed = errors.New("unit of work is already closed")

// Repository describes persistence access for entity T, mutations are staged until unit of work saves changes
type Repository[T any] interface {
	GetAll(context.Context) ([]*T, error)
	GetByID(context.Context, int) (*T, error)
	Find(context.Context, *T) (*T, error)
	Add(context.Context, *T) (bool, error)
	Update(context.Context, *T) (bool, error)
	Delete(context.Context, *T) (bool, error)
}

// CustomerRepository is repository for customers
type CustomerRepository interface {
	Repository[model.Customer]
	GetByName(context.Context, string) (*model.Customer, error)
	GetByEmail(context.Context, string) (*model.Customer, error)
}

// UnitOfWork owns repositories of single scope and commits changes staged in them at once
type UnitOfWork interface {
	Customers() CustomerRepository
	SaveChanges(context.Context) (int64, error)
	Close() error
}

// UnitOfWorkFactory opens new units of work
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type unitOfWorkKey struct{}

// WithUnitOfWork stores uow in context
func WithUnitOfWork(ctx context.Context, uow UnitOfWork) context.Context {
	return context.WithValue(ctx, unitOfWorkKey{}, uow)
}

// UnitOfWorkFromContext extracts unit of work stored with WithUnitOfWork
func UnitOfWorkFromContext(ctx context.Context) (UnitOfWork, bool) {
	uow, ok := ctx.Value(unitOfWorkKey{}).(UnitOfWork)
	return uow, ok
}
