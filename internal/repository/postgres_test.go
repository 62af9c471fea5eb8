//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	apperrors "github.com/umalmyha/customers/internal/errors"
	"github.com/umalmyha/customers/internal/model"
)

const (
	connectionTimeout = 3 * time.Second
)

const (
	pgContainerName = "pg-test-customers"
	pgPort          = "5432"
	pgTestUser      = "test"
	pgTestPassword  = "test"
	pgTestDB        = "customers"
)

var pgPool *pgxpool.Pool

func TestMain(m *testing.M) {
	// build docker pool
	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		logrus.Fatalf("failed to create pool - %v", err)
	}

	if err := dockerPool.Client.Ping(); err != nil {
		logrus.Fatalf("failed to connect to docker - %v", err)
	}

	// start postgres
	postgres, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       pgContainerName,
		Repository: "postgres",
		Tag:        "latest",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", pgTestUser),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", pgTestPassword),
			fmt.Sprintf("POSTGRES_DB=%s", pgTestDB),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432/tcp": {{HostIP: "localhost", HostPort: fmt.Sprintf("%s/tcp", pgPort)}},
		},
	})
	if err != nil {
		logrus.Fatalf("failed to start postgresql - %v", err)
	}

	// connect to postgres
	pgURI := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable", pgTestUser, pgTestPassword, pgPort, pgTestDB)
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		var err error
		pgPool, err = pgxpool.Connect(ctx, pgURI)
		if err != nil {
			return err
		}
		return pgPool.Ping(ctx)
	})
	if err != nil {
		logrus.Fatalf("failed to establish connection to postgresql - %v", err)
	}

	// run migrations
	if err := migrate(); err != nil {
		logrus.Fatalf("failed to apply migrations - %v", err)
	}

	// start tests
	code := m.Run()

	pgPool.Close()

	// purge postgresql
	if err := dockerPool.Purge(postgres); err != nil {
		logrus.Fatalf("failed to purge postgresql - %v", err)
	}

	os.Exit(code)
}

func migrate() error {
	files, err := filepath.Glob("../../migrations/*.sql")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	for _, f := range files {
		script, err := os.ReadFile(filepath.Clean(f))
		if err != nil {
			return err
		}

		if _, err := pgPool.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("migration %s failed - %w", f, err)
		}
	}
	return nil
}

func TestPostgresCustomerRps(t *testing.T) {
	factory := NewPostgresUnitOfWorkFactory(pgPool, testLogger())
	t.Log("running tests for postgres")
	testCustomerRps(t, factory)
}

func TestPostgresUniqueConflict(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	factory := NewPostgresUnitOfWorkFactory(pgPool, testLogger())

	t.Log("create reference customer")
	{
		uow := factory.New()
		_, err := uow.Customers().Add(ctx, &model.Customer{Name: "Unique Name", Email: "unique@somemail.com"})
		require.NoError(t, err)
		_, err = uow.SaveChanges(ctx)
		require.NoError(t, err, "failed to create customer")
	}

	t.Log("customer with the same name must be rejected by constraint")
	{
		uow := factory.New()
		_, err := uow.Customers().Add(ctx, &model.Customer{Name: "Unique Name", Email: "other@somemail.com"})
		require.NoError(t, err)

		_, err = uow.SaveChanges(ctx)
		require.Error(t, err, "duplicate name must fail commit")

		var storageErr *apperrors.StorageErr
		require.True(t, errors.As(err, &storageErr), "error must be storage error")
		require.Equal(t, "name", storageErr.Conflict, "conflict must point to name")
	}
}
