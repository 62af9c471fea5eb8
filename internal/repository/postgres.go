package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
	apperrors "github.com/umalmyha/customers/internal/errors"
	"github.com/umalmyha/customers/internal/model"
	"github.com/umalmyha/customers/pkg/db/transactor"
)

const pgUniqueViolation = "23505"

var pgUniqueConstraints = map[string]string{
	"customers_name_key":  "name",
	"customers_email_key": "email",
}

type postgresUnitOfWorkFactory struct {
	trx    transactor.Transactor
	exec   transactor.PgxExecutor
	logger logrus.FieldLogger
}

// NewPostgresUnitOfWorkFactory builds factory of units of work backed by postgres
func NewPostgresUnitOfWorkFactory(p *pgxpool.Pool, logger logrus.FieldLogger) UnitOfWorkFactory {
	return &postgresUnitOfWorkFactory{
		trx:    transactor.NewPgxTransactor(p),
		exec:   transactor.NewPgxExecutor(p),
		logger: logger,
	}
}

func (f *postgresUnitOfWorkFactory) New() UnitOfWork {
	tracker := &changeTracker{}
	return &unitOfWork{
		trx:       f.trx,
		tracker:   tracker,
		customers: &postgresCustomerRepository{exec: f.exec, tracker: tracker, logger: f.logger},
		classify:  classifyPgErr,
		logger:    f.logger,
	}
}

func classifyPgErr(op string, err error) *apperrors.StorageErr {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if field, ok := pgUniqueConstraints[pgErr.ConstraintName]; ok {
			return apperrors.NewConflictErr(op, field, err)
		}
	}
	return apperrors.NewStorageErr(op, err)
}

type postgresCustomerRepository struct {
	exec    transactor.PgxExecutor
	tracker *changeTracker
	logger  logrus.FieldLogger
}

func (r *postgresCustomerRepository) GetAll(ctx context.Context) ([]*model.Customer, error) {
	const op = "get all customers"
	if err := r.tracker.ensureOpen(); err != nil {
		return nil, r.fail(op, err)
	}

	q := "SELECT id, name, email, phone, post_code, country FROM customers ORDER BY id"
	rows, err := r.exec.Executor(ctx).Query(ctx, q)
	if err != nil {
		return nil, r.fail(op, err)
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, r.fail(op, err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, r.fail(op, err)
	}
	return customers, nil
}

func (r *postgresCustomerRepository) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	q := "SELECT id, name, email, phone, post_code, country FROM customers WHERE id = $1"
	return r.findOne(ctx, "get customer by id", q, id)
}

func (r *postgresCustomerRepository) Find(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	q := "SELECT id, name, email, phone, post_code, country FROM customers WHERE id = $1"
	return r.findOne(ctx, "find customer", q, c.ID)
}

func (r *postgresCustomerRepository) GetByName(ctx context.Context, name string) (*model.Customer, error) {
	q := "SELECT id, name, email, phone, post_code, country FROM customers WHERE name = $1 LIMIT 1"
	return r.findOne(ctx, "get customer by name", q, name)
}

func (r *postgresCustomerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	q := "SELECT id, name, email, phone, post_code, country FROM customers WHERE email = $1 LIMIT 1"
	return r.findOne(ctx, "get customer by email", q, email)
}

func (r *postgresCustomerRepository) Add(_ context.Context, c *model.Customer) (bool, error) {
	if !c.IsNew() {
		return false, nil
	}

	var id int
	insert := func(ctx context.Context) (int64, error) {
		q := `INSERT INTO customers(name, email, phone, post_code, country)
			  VALUES($1, $2, $3, $4, $5) RETURNING id`
		row := r.exec.Executor(ctx).QueryRow(ctx, q, c.Name, c.Email, c.Phone, c.PostCode, c.Country)
		if err := row.Scan(&id); err != nil {
			return 0, err
		}
		return 1, nil
	}

	err := r.tracker.trackWithCommit("insert customer", insert, func() { c.ID = id })
	if err != nil {
		return false, r.fail("add customer", err)
	}
	return true, nil
}

func (r *postgresCustomerRepository) Update(_ context.Context, c *model.Customer) (bool, error) {
	r.tracker.clear()
	err := r.tracker.track("update customer", func(ctx context.Context) (int64, error) {
		q := `UPDATE customers SET name = $1, email = $2, phone = $3, post_code = $4, country = $5
			  WHERE id = $6`
		comm, err := r.exec.Executor(ctx).Exec(ctx, q, c.Name, c.Email, c.Phone, c.PostCode, c.Country, c.ID)
		if err != nil {
			return 0, err
		}
		return comm.RowsAffected(), nil
	})
	if err != nil {
		return false, r.fail("update customer", err)
	}
	return true, nil
}

func (r *postgresCustomerRepository) Delete(_ context.Context, c *model.Customer) (bool, error) {
	id := c.ID
	err := r.tracker.track("delete customer", func(ctx context.Context) (int64, error) {
		comm, err := r.exec.Executor(ctx).Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
		if err != nil {
			return 0, err
		}
		return comm.RowsAffected(), nil
	})
	if err != nil {
		return false, r.fail("delete customer", err)
	}
	return true, nil
}

func (r *postgresCustomerRepository) findOne(ctx context.Context, op string, q string, args ...any) (*model.Customer, error) {
	if err := r.tracker.ensureOpen(); err != nil {
		return nil, r.fail(op, err)
	}

	c, err := r.scanRow(r.exec.Executor(ctx).QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, r.fail(op, err)
	}
	return c, nil
}

func (r *postgresCustomerRepository) scanRow(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.PostCode, &c.Country); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresCustomerRepository) fail(op string, err error) error {
	r.logger.WithError(err).Errorf("error occurred while trying to %s", op)
	return apperrors.NewStorageErr(op, err)
}
