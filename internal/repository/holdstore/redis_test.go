package holdstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreevatsags/ecommerce-platform/internal/repository"
	"github.com/Shreevatsags/ecommerce-platform/internal/repository/holdstore"
)

// newTestRedis connects to the Redis named by REDIS_ADDR and isolates the
// test in a fresh database. Skipped when no Redis is reachable.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping redis-backed test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 9})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis at %v is not reachable: %v", addr, err)
	}

	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := holdstore.NewRedisStore(newTestRedis(t))

	require.NoError(t, store.Put(ctx, "P1", "alice", 4, time.Minute))
	require.NoError(t, store.Put(ctx, "P1", "bob", 2, time.Minute))

	quantity, err := store.Get(ctx, "P1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, quantity)

	sum, err := store.SumByProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 6, sum)

	released, err := store.Remove(ctx, "P1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, released)

	_, err = store.Get(ctx, "P1", "alice")
	assert.ErrorIs(t, err, repository.ErrHoldNotFound)

	sum, err = store.SumByProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 2, sum)
}

func TestRedisStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	store := holdstore.NewRedisStore(newTestRedis(t))

	require.NoError(t, store.Put(ctx, "P1", "alice", 2, time.Minute))
	require.NoError(t, store.Put(ctx, "P1", "alice", 5, time.Minute))

	sum, err := store.SumByProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 5, sum)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := holdstore.NewRedisStore(newTestRedis(t))

	require.NoError(t, store.Put(ctx, "P1", "alice", 4, 100*time.Millisecond))
	require.NoError(t, store.Put(ctx, "P1", "bob", 2, time.Minute))

	time.Sleep(200 * time.Millisecond)

	_, err := store.Get(ctx, "P1", "alice")
	assert.ErrorIs(t, err, repository.ErrHoldNotFound)

	// The expired hold drops out of the sum and its index entry is
	// pruned.
	sum, err := store.SumByProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 2, sum)
}

func TestRedisStore_RemoveAbsent(t *testing.T) {
	ctx := context.Background()
	store := holdstore.NewRedisStore(newTestRedis(t))

	_, err := store.Remove(ctx, "P1", "nobody")
	assert.ErrorIs(t, err, repository.ErrHoldNotFound)
}

func TestRedisStore_ManyHolders(t *testing.T) {
	ctx := context.Background()
	store := holdstore.NewRedisStore(newTestRedis(t))

	want := 0
	for i := 0; i < 25; i++ {
		quantity := i%5 + 1
		want += quantity
		require.NoError(t, store.Put(ctx, "P1", fmt.Sprintf("holder-%d", i), quantity, time.Minute))
	}

	sum, err := store.SumByProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, want, sum)
}
