package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/umalmyha/customers/internal/cache"
	apperrors "github.com/umalmyha/customers/internal/errors"
	"github.com/umalmyha/customers/internal/model"
	"github.com/umalmyha/customers/internal/repository"
	"github.com/umalmyha/customers/internal/result"
	"github.com/umalmyha/customers/internal/validation"
)

// MsgCustomerNotFound is reported when customer to delete doesn't exist
const MsgCustomerNotFound = "Customer not found"

// ErrCustomerNotStaged is raised when repository refused to stage new customer
var ErrCustomerNotStaged = errors.New("customer wasn't staged for insertion")

var conflictViolations = map[string]apperrors.Violation{
	validation.FieldName:  {Field: validation.FieldName, Message: validation.MsgNameExists},
	validation.FieldEmail: {Field: validation.FieldEmail, Message: validation.MsgEmailExists},
}

// CustomerService is the only entry point for operations over customers
type CustomerService interface {
	Add(context.Context, *model.Customer) (result.Result[bool], error)
	Update(context.Context, *model.Customer) (result.Result[bool], error)
	Delete(context.Context, int) (result.Result[bool], error)
	Find(context.Context, *model.Customer) (*model.Customer, error)
	GetAll(context.Context) ([]*model.Customer, error)
	GetByID(context.Context, int) (*model.Customer, error)
}

type customerService struct {
	factory   repository.UnitOfWorkFactory
	validator validation.CustomerValidator
	cache     cache.CustomerCache
	logger    logrus.FieldLogger
}

// NewCustomerService builds CustomerService, unit of work is taken from context if present
func NewCustomerService(
	factory repository.UnitOfWorkFactory,
	validator validation.CustomerValidator,
	cache cache.CustomerCache,
	logger logrus.FieldLogger,
) CustomerService {
	return &customerService{
		factory:   factory,
		validator: validator,
		cache:     cache,
		logger:    logger,
	}
}

func (s *customerService) Add(ctx context.Context, c *model.Customer) (result.Result[bool], error) {
	s.logger.Debugf("adding customer %s", c.Name)

	uow, done := s.scope(ctx)
	defer done()

	res, err := s.validate(ctx, uow, c)
	if err != nil || res.IsFailure() {
		return res, err
	}

	added, err := uow.Customers().Add(ctx, c)
	if err != nil {
		s.logger.WithError(err).Errorf("failed to add customer %s", c.Name)
		return result.Result[bool]{}, err
	}

	if !added {
		s.logger.WithError(ErrCustomerNotStaged).Errorf("failed to add customer %s", c.Name)
		return result.Failure[bool](ErrCustomerNotStaged), nil
	}

	if _, err := uow.SaveChanges(ctx); err != nil {
		return s.saveFailure(c, err)
	}

	s.logger.Infof("customer %s added with id %d", c.Name, c.ID)
	return result.Success(true), nil
}

func (s *customerService) Update(ctx context.Context, c *model.Customer) (result.Result[bool], error) {
	s.logger.Debugf("updating customer %d", c.ID)

	uow, done := s.scope(ctx)
	defer done()

	res, err := s.validate(ctx, uow, c)
	if err != nil || res.IsFailure() {
		return res, err
	}

	if _, err := uow.Customers().Update(ctx, c); err != nil {
		s.logger.WithError(err).Errorf("failed to update customer %d", c.ID)
		return result.Result[bool]{}, err
	}

	if _, err := uow.SaveChanges(ctx); err != nil {
		return s.saveFailure(c, err)
	}

	if err := s.cache.DeleteByID(ctx, c.ID); err != nil {
		s.logger.WithError(err).Errorf("failed to evict customer %d from cache", c.ID)
		return result.Result[bool]{}, err
	}

	return result.Success(true), nil
}

func (s *customerService) Delete(ctx context.Context, id int) (result.Result[bool], error) {
	s.logger.Debugf("deleting customer %d", id)

	uow, done := s.scope(ctx)
	defer done()

	existing, err := uow.Customers().GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).Errorf("failed to read customer %d", id)
		return result.Result[bool]{}, err
	}

	if existing == nil {
		notFoundErr := apperrors.NewEntryNotFoundErr(validation.FieldID, MsgCustomerNotFound)
		s.logger.WithError(notFoundErr).Warnf("customer %d can't be deleted", id)
		return result.Failure[bool](notFoundErr), nil
	}

	if _, err := uow.Customers().Delete(ctx, existing); err != nil {
		s.logger.WithError(err).Errorf("failed to delete customer %d", id)
		return result.Result[bool]{}, err
	}

	if _, err := uow.SaveChanges(ctx); err != nil {
		s.logger.WithError(err).Errorf("failed to delete customer %d", id)
		return result.Result[bool]{}, err
	}

	if err := s.cache.DeleteByID(ctx, id); err != nil {
		s.logger.WithError(err).Errorf("failed to evict customer %d from cache", id)
		return result.Result[bool]{}, err
	}

	return result.Success(true), nil
}

func (s *customerService) Find(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	s.logger.Debugf("looking for customer %d", c.ID)

	uow, done := s.scope(ctx)
	defer done()

	found, err := uow.Customers().Find(ctx, c)
	if err != nil {
		s.logger.WithError(err).Errorf("failed to find customer %d", c.ID)
		return nil, err
	}
	return found, nil
}

func (s *customerService) GetAll(ctx context.Context) ([]*model.Customer, error) {
	s.logger.Debug("reading all customers")

	uow, done := s.scope(ctx)
	defer done()

	customers, err := uow.Customers().GetAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to read customers")
		return nil, err
	}
	return customers, nil
}

func (s *customerService) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	s.logger.Debugf("reading customer %d", id)

	c, err := s.cache.FindByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).Errorf("failed to read customer %d from cache", id)
		return nil, err
	}

	if c != nil {
		return c, nil
	}

	uow, done := s.scope(ctx)
	defer done()

	c, err = uow.Customers().GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).Errorf("failed to read customer %d", id)
		return nil, err
	}

	if c == nil {
		return nil, nil
	}

	if err := s.cache.Create(ctx, c); err != nil {
		s.logger.WithError(err).Errorf("failed to cache customer %d", id)
		return nil, err
	}
	return c, nil
}

// scope returns unit of work of the request or opens new one which is closed by returned func
func (s *customerService) scope(ctx context.Context) (repository.UnitOfWork, func()) {
	if uow, ok := repository.UnitOfWorkFromContext(ctx); ok {
		return uow, func() {}
	}

	uow := s.factory.New()
	return uow, func() {
		if err := uow.Close(); err != nil {
			s.logger.WithError(err).Warn("failed to close unit of work")
		}
	}
}

func (s *customerService) validate(ctx context.Context, uow repository.UnitOfWork, c *model.Customer) (result.Result[bool], error) {
	violations, err := s.validator.Validate(ctx, uow.Customers(), c)
	if err != nil {
		s.logger.WithError(err).Errorf("failed to validate customer %s", c.Name)
		return result.Result[bool]{}, err
	}

	if len(violations) > 0 {
		vErr := apperrors.NewValidationErr(violations...)
		s.logger.WithError(vErr).Warnf("customer %s is not valid", c.Name)
		return result.Failure[bool](vErr), nil
	}
	return result.Success(true), nil
}

// saveFailure converts unique constraint violation raised on commit into the same failure as validation reports
func (s *customerService) saveFailure(c *model.Customer, err error) (result.Result[bool], error) {
	var storageErr *apperrors.StorageErr
	if errors.As(err, &storageErr) {
		if v, ok := conflictViolations[storageErr.Conflict]; ok {
			vErr := apperrors.NewValidationErr(v)
			s.logger.WithError(vErr).Warnf("customer %s conflicts with existing one", c.Name)
			return result.Failure[bool](vErr), nil
		}
	}

	s.logger.WithError(err).Errorf("failed to save customer %s", c.Name)
	return result.Result[bool]{}, err
}
