package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable points at a closed port so every command fails fast.
func unreachable() *RedisCache {
	return &RedisCache{Client: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})}
}

func TestRedisCache_Unreachable(t *testing.T) {
	rc := unreachable()
	t.Cleanup(func() { rc.Close() })
	ctx := context.Background()

	assert.Error(t, rc.Connect(ctx))
	assert.Error(t, rc.Ping(ctx))

	var dest map[string]string
	found, err := rc.Get(ctx, "books:filters", &dest)
	assert.False(t, found)
	assert.Error(t, err)

	assert.Error(t, rc.Set(ctx, "books:filters", map[string]string{"a": "b"}, time.Minute))
	assert.Error(t, rc.DeletePattern(ctx, "books:*"))
}

func TestRedisCache_DeleteNoKeys(t *testing.T) {
	rc := unreachable()
	t.Cleanup(func() { rc.Close() })

	// no round trip when there is nothing to delete
	require.NoError(t, rc.Delete(context.Background()))
}

func TestRedisCache_SetEncodeError(t *testing.T) {
	rc := unreachable()
	t.Cleanup(func() { rc.Close() })

	err := rc.Set(context.Background(), "k", make(chan int), time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode")
}

func TestRedisCache_NilClient(t *testing.T) {
	rc := &RedisCache{}
	assert.Error(t, rc.Ping(context.Background()))
	assert.NoError(t, rc.Close())
}
