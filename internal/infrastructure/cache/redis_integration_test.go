//go:build integration

package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisIdempotencyStore(t *testing.T) {
	client := startRedis(t)
	store := NewRedisIdempotencyStore(client, "test:idem:")
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "bill-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "bill-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, isNew)

	processed, err := store.IsProcessed(ctx, "bill-1")
	require.NoError(t, err)
	assert.True(t, processed)

	require.NoError(t, store.Release(ctx, "bill-1"))
	processed, err = store.IsProcessed(ctx, "bill-1")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestRedisLocker_Serializes(t *testing.T) {
	client := startRedis(t)
	locker := NewRedisLocker(client, 5*time.Second, nil)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		inside  int32
		maxSeen int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "customer:1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			if n > atomic.LoadInt32(&maxSeen) {
				atomic.StoreInt32(&maxSeen, n)
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxSeen))
}

func TestRedisLocker_ContextCancel(t *testing.T) {
	client := startRedis(t)
	locker := NewRedisLocker(client, 5*time.Second, nil)

	unlock, err := locker.Lock(context.Background(), "stock:Anklet")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "stock:Anklet")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisLocker_StaleUnlockKeepsNewHolder(t *testing.T) {
	client := startRedis(t)
	locker := NewRedisLocker(client, 50*time.Millisecond, nil)
	ctx := context.Background()

	staleUnlock, err := locker.Lock(ctx, "customer:2")
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	unlock, err := locker.Lock(ctx, "customer:2")
	require.NoError(t, err)
	defer unlock()

	staleUnlock()
	n, err := client.Exists(ctx, defaultLockPrefix+"customer:2").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
