// Package holdstore implements the ephemeral hold store on Redis.
//
// A hold lives at reserved:{productID}:{holderID} with a native TTL, so
// expiry needs no sweeper and is silent: an expired hold is simply absent
// on the next read. A per-product set at reserved:index:{productID} tracks
// holder IDs so summing a product's holds is a set read instead of a
// store-wide key scan. Index members whose hold key is gone are pruned
// lazily on read.
package holdstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shreevatsags/ecommerce-platform/internal/repository"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

func holdKey(productID, holderID string) string {
	return fmt.Sprintf("reserved:%s:%s", productID, holderID)
}

func indexKey(productID string) string {
	return fmt.Sprintf("reserved:index:%s", productID)
}

// Put upserts the hold for (productID, holderID), replacing any existing
// hold under the key and restarting its expiry timer.
func (s *RedisStore) Put(ctx context.Context, productID, holderID string, quantity int, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, holdKey(productID, holderID), quantity, ttl)
	pipe.SAdd(ctx, indexKey(productID), holderID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipe.Exec -> %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, productID, holderID string) (int, error) {
	quantity, err := s.client.Get(ctx, holdKey(productID, holderID)).Int()
	if errors.Is(err, redis.Nil) {
		s.client.SRem(ctx, indexKey(productID), holderID)

		return 0, repository.ErrHoldNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("s.client.Get -> %w", err)
	}

	return quantity, nil
}

// Remove deletes the hold and returns the quantity it held.
func (s *RedisStore) Remove(ctx context.Context, productID, holderID string) (int, error) {
	quantity, err := s.client.GetDel(ctx, holdKey(productID, holderID)).Int()
	if errors.Is(err, redis.Nil) {
		s.client.SRem(ctx, indexKey(productID), holderID)

		return 0, repository.ErrHoldNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("s.client.GetDel -> %w", err)
	}

	if err := s.client.SRem(ctx, indexKey(productID), holderID).Err(); err != nil {
		return 0, fmt.Errorf("s.client.SRem -> %w", err)
	}

	return quantity, nil
}

// SumByProduct returns the aggregate quantity of all active holds for a
// product.
func (s *RedisStore) SumByProduct(ctx context.Context, productID string) (int, error) {
	holders, err := s.client.SMembers(ctx, indexKey(productID)).Result()
	if err != nil {
		return 0, fmt.Errorf("s.client.SMembers -> %w", err)
	}
	if len(holders) == 0 {
		return 0, nil
	}

	keys := make([]string, len(holders))
	for i, holderID := range holders {
		keys[i] = holdKey(productID, holderID)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("s.client.MGet -> %w", err)
	}

	sum := 0
	var expired []interface{}
	for i, value := range values {
		if value == nil {
			expired = append(expired, holders[i])
			continue
		}

		quantity, err := strconv.Atoi(value.(string))
		if err != nil {
			return 0, fmt.Errorf("malformed hold value %q for product %v", value, productID)
		}
		sum += quantity
	}

	if len(expired) > 0 {
		s.client.SRem(ctx, indexKey(productID), expired...)
	}

	return sum, nil
}
