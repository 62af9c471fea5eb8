package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	apperrors "github.com/umalmyha/customers/internal/errors"
	"github.com/umalmyha/customers/internal/model"
	"github.com/umalmyha/customers/pkg/db/transactor"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS customers (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT NOT NULL UNIQUE,
	email     TEXT NOT NULL UNIQUE,
	phone     TEXT NULL,
	post_code TEXT NULL,
	country   TEXT NULL
)`

var sqliteUniqueColumns = map[string]string{
	"customers.name":  "name",
	"customers.email": "email",
}

// EnsureSqliteSchema creates customers table if it doesn't exist yet
func EnsureSqliteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return apperrors.NewStorageErr("create customers table", err)
	}
	return nil
}

type sqliteUnitOfWorkFactory struct {
	trx    transactor.Transactor
	exec   transactor.SQLExecutor
	logger logrus.FieldLogger
}

// NewSqliteUnitOfWorkFactory builds factory of units of work backed by sqlite
func NewSqliteUnitOfWorkFactory(db *sql.DB, logger logrus.FieldLogger) UnitOfWorkFactory {
	return &sqliteUnitOfWorkFactory{
		trx:    transactor.NewSQLTransactor(db),
		exec:   transactor.NewSQLExecutor(db),
		logger: logger,
	}
}

func (f *sqliteUnitOfWorkFactory) New() UnitOfWork {
	tracker := &changeTracker{}
	return &unitOfWork{
		trx:       f.trx,
		tracker:   tracker,
		customers: &sqliteCustomerRepository{exec: f.exec, tracker: tracker, logger: f.logger},
		classify:  classifySqliteErr,
		logger:    f.logger,
	}
}

func classifySqliteErr(op string, err error) *apperrors.StorageErr {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		msg := sqliteErr.Error()
		for column, field := range sqliteUniqueColumns {
			if strings.Contains(msg, column) {
				return apperrors.NewConflictErr(op, field, err)
			}
		}
	}
	return apperrors.NewStorageErr(op, err)
}

type sqliteCustomerRepository struct {
	exec    transactor.SQLExecutor
	tracker *changeTracker
	logger  logrus.FieldLogger
}

func (r *sqliteCustomerRepository) GetAll(ctx context.Context) ([]*model.Customer, error) {
	const op = "get all customers"
	if err := r.tracker.ensureOpen(); err != nil {
		return nil, r.fail(op, err)
	}

	q := "SELECT id, name, email, phone, post_code, country FROM customers ORDER BY id"
	rows, err := r.exec.Executor(ctx).QueryContext(ctx, q)
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

func (r *sqliteCustomerRepository) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	q := "SELECT id, name, email, phone, post_code, country FROM customers WHERE id = ?"
	return r.findOne(ctx, "get customer by id", q, id)
}

func (r *sqliteCustomerRepository) Find(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	q := "SELECT id, name, email, phone, post_code, country FROM customers WHERE id = ?"
	return r.findOne(ctx, "find customer", q, c.ID)
}

func (r *sqliteCustomerRepository) GetByName(ctx context.Context, name string) (*model.Customer, error) {
	q := "SELECT id, name, email, phone, post_code, country FROM customers WHERE name = ? LIMIT 1"
	return r.findOne(ctx, "get customer by name", q, name)
}

func (r *sqliteCustomerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	q := "SELECT id, name, email, phone, post_code, country FROM customers WHERE email = ? LIMIT 1"
	return r.findOne(ctx, "get customer by email", q, email)
}

func (r *sqliteCustomerRepository) Add(_ context.Context, c *model.Customer) (bool, error) {
	if !c.IsNew() {
		return false, nil
	}

	var id int64
	insert := func(ctx context.Context) (int64, error) {
		q := "INSERT INTO customers(name, email, phone, post_code, country) VALUES(?, ?, ?, ?, ?)"
		res, err := r.exec.Executor(ctx).ExecContext(ctx, q, c.Name, c.Email, c.Phone, c.PostCode, c.Country)
		if err != nil {
			return 0, err
		}

		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	err := r.tracker.trackWithCommit("insert customer", insert, func() { c.ID = int(id) })
	if err != nil {
		return false, r.fail("add customer", err)
	}
	return true, nil
}

func (r *sqliteCustomerRepository) Update(_ context.Context, c *model.Customer) (bool, error) {
	r.tracker.clear()
	err := r.tracker.track("update customer", func(ctx context.Context) (int64, error) {
		q := "UPDATE customers SET name = ?, email = ?, phone = ?, post_code = ?, country = ? WHERE id = ?"
		res, err := r.exec.Executor(ctx).ExecContext(ctx, q, c.Name, c.Email, c.Phone, c.PostCode, c.Country, c.ID)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
	if err != nil {
		return false, r.fail("update customer", err)
	}
	return true, nil
}

func (r *sqliteCustomerRepository) Delete(_ context.Context, c *model.Customer) (bool, error) {
	id := c.ID
	err := r.tracker.track("delete customer", func(ctx context.Context) (int64, error) {
		res, err := r.exec.Executor(ctx).ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
	if err != nil {
		return false, r.fail("delete customer", err)
	}
	return true, nil
}

func (r *sqliteCustomerRepository) findOne(ctx context.Context, op string, q string, args ...any) (*model.Customer, error) {
	if err := r.tracker.ensureOpen(); err != nil {
		return nil, r.fail(op, err)
	}

	c, err := r.scanRow(r.exec.Executor(ctx).QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.fail(op, err)
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *sqliteCustomerRepository) scanRow(row scanner) (*model.Customer, error) {
	var c model.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.PostCode, &c.Country); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteCustomerRepository) fail(op string, err error) error {
	r.logger.WithError(err).Errorf("error occurred while trying to %s", op)
	return apperrors.NewStorageErr(op, err)
}
