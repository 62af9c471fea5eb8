package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/umalmyha/customers/internal/model"
)

func TestRedisCustomerCache(t *testing.T) {
	ctx := context.Background()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	customerCache := NewRedisCustomerCache(client, time.Minute)

	customer := &model.Customer{
		ID:       7,
		Name:     "John Walls",
		Email:    "john.walls@somemal.com",
		PostCode: model.Optional("EC1A 1BB"),
	}

	t.Log("missing customer is not an error")
	{
		c, err := customerCache.FindByID(ctx, customer.ID)
		require.NoError(t, err, "no error must be raised")
		require.Nil(t, c, "nothing was cached yet")
	}

	t.Log("cached customer is found")
	{
		err := customerCache.Create(ctx, customer)
		require.NoError(t, err, "failed to cache customer")
		require.True(t, srv.Exists("customer:7"), "customer must be stored under its key")
		require.Equal(t, time.Minute, srv.TTL("customer:7"), "ttl must be applied")

		c, err := customerCache.FindByID(ctx, customer.ID)
		require.NoError(t, err, "no error must be raised")
		require.Equal(t, customer, c, "cached customer differs from original")
	}

	t.Log("evicted customer is gone")
	{
		err := customerCache.DeleteByID(ctx, customer.ID)
		require.NoError(t, err, "failed to evict customer")

		c, err := customerCache.FindByID(ctx, customer.ID)
		require.NoError(t, err, "no error must be raised")
		require.Nil(t, c, "customer was evicted but still found")
	}

	t.Log("unreachable redis raises error")
	{
		srv.Close()
		_, err := customerCache.FindByID(ctx, customer.ID)
		require.Error(t, err, "closed server must fail reads")
	}
}

func TestNopCustomerCache(t *testing.T) {
	ctx := context.Background()
	customerCache := NewNopCustomerCache()

	require.NoError(t, customerCache.Create(ctx, &model.Customer{ID: 1}))

	c, err := customerCache.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, c, "nop cache must never return customers")
	require.NoError(t, customerCache.DeleteByID(ctx, 1))
}
