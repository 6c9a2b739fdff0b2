package store

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisKV(client), mr
}

func TestRedisKV_GetSet(t *testing.T) {
	kv, mr := newTestKV(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	mr.FastForward(2 * time.Minute)
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisKV_DeleteAndScan(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "deployment:mounts:configuration:1", "a", 0))
	require.NoError(t, kv.Set(ctx, "deployment:mounts:configuration:2", "b", 0))
	require.NoError(t, kv.Set(ctx, "other", "c", 0))

	keys, err := kv.ScanKeys(ctx, "deployment:mounts:*")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"deployment:mounts:configuration:1", "deployment:mounts:configuration:2"}, keys)

	require.NoError(t, kv.Delete(ctx, keys...))
	require.NoError(t, kv.Delete(ctx))

	keys, err = kv.ScanKeys(ctx, "deployment:*")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
