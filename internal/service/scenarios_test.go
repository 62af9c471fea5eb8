package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/umalmyha/customers/internal/cache"
	apperrors "github.com/umalmyha/customers/internal/errors"
	"github.com/umalmyha/customers/internal/model"
	"github.com/umalmyha/customers/internal/repository"
	"github.com/umalmyha/customers/internal/result"
	"github.com/umalmyha/customers/internal/validation"
)

func sqliteService(t *testing.T) CustomerService {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "failed to open sqlite")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, repository.EnsureSqliteSchema(context.Background(), db))

	validator, err := validation.NewCustomerValidator()
	require.NoError(t, err)

	factory := repository.NewSqliteUnitOfWorkFactory(db, testLogger())
	return NewCustomerService(factory, validator, cache.NewNopCustomerCache(), testLogger())
}

func failureMessages(t *testing.T, res result.Result[bool]) []string {
	t.Helper()
	require.True(t, res.IsFailure(), "failure result expected")

	var vErr *apperrors.ValidationErr
	require.True(t, errors.As(res.Err(), &vErr), "validation error expected, got %v", res.Err())
	return vErr.Messages()
}

func TestCustomerScenarios(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc := sqliteService(t)

	t.Log("scenario A: valid customer is added and gets id")
	{
		res, err := svc.Add(ctx, &model.Customer{Name: "Ann Lee", Email: "ann@example.com"})
		require.NoError(t, err)
		require.True(t, res.IsSuccess())
		require.True(t, res.Value())

		all, err := svc.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, "Ann Lee", all[0].Name)
		require.NotZero(t, all[0].ID)
	}

	t.Log("scenario B: empty name and malformed email are rejected")
	{
		res, err := svc.Add(ctx, &model.Customer{Name: "", Email: "bad"})
		require.NoError(t, err)

		msgs := failureMessages(t, res)
		require.Contains(t, msgs, validation.MsgNameRequired)
		require.Contains(t, msgs, validation.MsgEmailInvalid)
	}

	t.Log("scenario C: second customer with the same email is rejected")
	{
		res, err := svc.Add(ctx, &model.Customer{Name: "Xavier One", Email: "x@y.com"})
		require.NoError(t, err)
		require.True(t, res.IsSuccess())

		res, err = svc.Add(ctx, &model.Customer{Name: "Xavier Two", Email: "x@y.com"})
		require.NoError(t, err)
		require.Contains(t, failureMessages(t, res), validation.MsgEmailExists)
	}

	t.Log("scenario D: update of country keeps other fields")
	{
		c := &model.Customer{Name: "Dora Smith", Email: "dora@example.com"}
		res, err := svc.Add(ctx, c)
		require.NoError(t, err)
		require.True(t, res.IsSuccess())

		upd := &model.Customer{ID: c.ID, Name: c.Name, Email: c.Email, Country: model.Optional("Germany")}
		res, err = svc.Update(ctx, upd)
		require.NoError(t, err)
		require.True(t, res.IsSuccess(), "customer must not conflict with itself")

		dbCustomer, err := svc.GetByID(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, "Germany", model.Value(dbCustomer.Country))
		require.Equal(t, c.Name, dbCustomer.Name)
		require.Equal(t, c.Email, dbCustomer.Email)
	}

	t.Log("scenario E: delete of missing customer is reported as not found")
	{
		before, err := svc.GetAll(ctx)
		require.NoError(t, err)

		res, err := svc.Delete(ctx, 999)
		require.NoError(t, err)
		require.Equal(t, []string{MsgCustomerNotFound}, failureMessages(t, res))

		after, err := svc.GetAll(ctx)
		require.NoError(t, err)
		require.Equal(t, before, after, "nothing must be mutated")
	}
}

func TestCustomerProperties(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc := sqliteService(t)

	t.Log("names outside of allowed length are rejected")
	{
		for _, name := range []string{"", "Al", "This name is definitely longer than fifty characters"} {
			res, err := svc.Add(ctx, &model.Customer{Name: name, Email: "len@example.com"})
			require.NoError(t, err)
			require.NotEmpty(t, failureMessages(t, res), "name %q must be rejected", name)
		}
	}

	t.Log("update can't take name of another customer")
	{
		first := &model.Customer{Name: "First One", Email: "first@example.com"}
		second := &model.Customer{Name: "Second One", Email: "second@example.com"}
		for _, c := range []*model.Customer{first, second} {
			res, err := svc.Add(ctx, c)
			require.NoError(t, err)
			require.True(t, res.IsSuccess())
		}

		res, err := svc.Update(ctx, &model.Customer{ID: second.ID, Name: first.Name, Email: second.Email})
		require.NoError(t, err)
		require.Equal(t, []string{validation.MsgNameExists}, failureMessages(t, res))
	}

	t.Log("existing customer is deleted and can't be read anymore")
	{
		c := &model.Customer{Name: "Gone Soon", Email: "gone@example.com"}
		res, err := svc.Add(ctx, c)
		require.NoError(t, err)
		require.True(t, res.IsSuccess())

		res, err = svc.Delete(ctx, c.ID)
		require.NoError(t, err)
		require.True(t, res.IsSuccess())

		dbCustomer, err := svc.GetByID(ctx, c.ID)
		require.NoError(t, err)
		require.Nil(t, dbCustomer)
	}

	t.Log("reads don't mutate state")
	{
		before, err := svc.GetAll(ctx)
		require.NoError(t, err)

		for _, c := range before {
			_, err := svc.GetByID(ctx, c.ID)
			require.NoError(t, err)
			_, err = svc.Find(ctx, c)
			require.NoError(t, err)
		}

		after, err := svc.GetAll(ctx)
		require.NoError(t, err)
		require.Equal(t, before, after)
	}
}
