package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/umalmyha/customers/internal/model"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultCustomerTimeToLive is used when cache is built with non-positive ttl
const DefaultCustomerTimeToLive = 10 * time.Minute

type redisCustomerCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCustomerCache builds CustomerCache storing msgpack encoded customers in redis
func NewRedisCustomerCache(client *redis.Client, ttl time.Duration) CustomerCache {
	if ttl <= 0 {
		ttl = DefaultCustomerTimeToLive
	}
	return &redisCustomerCache{client: client, ttl: ttl}
}

func (r *redisCustomerCache) FindByID(ctx context.Context, id int) (*model.Customer, error) {
	res, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read customer %d from cache - %w", id, err)
	}

	var c model.Customer
	if err := msgpack.Unmarshal(res, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cached customer %d - %w", id, err)
	}

	return &c, nil
}

func (r *redisCustomerCache) DeleteByID(ctx context.Context, id int) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to evict customer %d from cache - %w", id, err)
	}
	return nil
}

func (r *redisCustomerCache) Create(ctx context.Context, c *model.Customer) error {
	encoded, err := msgpack.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode customer %d - %w", c.ID, err)
	}

	if err := r.client.SetNX(ctx, r.key(c.ID), encoded, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache customer %d - %w", c.ID, err)
	}
	return nil
}

func (r *redisCustomerCache) key(id int) string {
	return fmt.Sprintf("customer:%d", id)
}
