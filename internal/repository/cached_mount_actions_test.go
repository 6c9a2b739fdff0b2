package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/sensor-management-system/orchestration-sub007/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCachedRepo(t *testing.T) (*CachedMountActionsRepo, *MemoryStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	mem := NewMemoryStore()
	return NewCachedMountActionsRepo(mem, store.NewRedisKV(client), time.Minute, zap.NewNop()), mem, mr
}

func TestCachedMountActionsRepo_ServesFromCacheUntilInvalidated(t *testing.T) {
	repo, mem, mr := newCachedRepo(t)
	ctx := context.Background()

	m, err := mem.AddMountAction(domain.MountAction{Kind: domain.KindDevice, EquipmentID: "1", ConfigurationID: "c1", BeginDate: day(1)})
	require.NoError(t, err)

	got, err := repo.ListMountActionsByConfiguration(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, mr.Exists(mountCacheKey("c1")))

	// 写入后未失效：仍返回缓存
	require.NoError(t, mem.EndMountAction(domain.KindDevice, m.ID, day(2)))
	got, err = repo.ListMountActionsByConfiguration(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got[0].EndDate)
	assert.Equal(t, day(1), got[0].BeginDate)

	require.NoError(t, repo.Invalidate(ctx, "c1"))
	got, err = repo.ListMountActionsByConfiguration(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got[0].EndDate)
	assert.Equal(t, day(2), *got[0].EndDate)
}

func TestCachedMountActionsRepo_InvalidateAll(t *testing.T) {
	repo, _, mr := newCachedRepo(t)
	ctx := context.Background()

	_, err := repo.ListMountActionsByConfiguration(ctx, "c1")
	require.NoError(t, err)
	_, err = repo.ListMountActionsByConfiguration(ctx, "c2")
	require.NoError(t, err)

	require.NoError(t, repo.Invalidate(ctx, ""))
	assert.False(t, mr.Exists(mountCacheKey("c1")))
	assert.False(t, mr.Exists(mountCacheKey("c2")))
}

func TestCachedMountActionsRepo_FallsBackWhenRedisDown(t *testing.T) {
	repo, mem, mr := newCachedRepo(t)
	_, err := mem.AddMountAction(domain.MountAction{Kind: domain.KindPlatform, EquipmentID: "1", ConfigurationID: "c1", BeginDate: day(1)})
	require.NoError(t, err)

	mr.Close()

	got, err := repo.ListMountActionsByConfiguration(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
