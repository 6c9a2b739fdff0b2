package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/sensor-management-system/orchestration-sub007/internal/observability"
	"github.com/sensor-management-system/orchestration-sub007/internal/store"
	"go.uber.org/zap"
)

const mountCachePrefix = "deployment:mounts:configuration:"

// CachedMountActionsRepo 按配置缓存安装记录（Redis）
// 缓存失败只记录日志，回退到底层 Repository
type CachedMountActionsRepo struct {
	next   MountActionsRepository
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedMountActionsRepo(next MountActionsRepository, kv store.KV, ttl time.Duration, logger *zap.Logger) *CachedMountActionsRepo {
	return &CachedMountActionsRepo{next: next, kv: kv, ttl: ttl, logger: logger}
}

var _ MountActionsRepository = (*CachedMountActionsRepo)(nil)

func mountCacheKey(configurationID string) string {
	return mountCachePrefix + configurationID
}

func (r *CachedMountActionsRepo) ListMountActionsByConfiguration(ctx context.Context, configurationID string) ([]domain.MountAction, error) {
	key := mountCacheKey(configurationID)

	raw, err := r.kv.Get(ctx, key)
	switch {
	case err == nil:
		var mounts []domain.MountAction
		if err := json.Unmarshal([]byte(raw), &mounts); err == nil {
			observability.SnapshotCacheLookups.WithLabelValues("hit").Inc()
			return mounts, nil
		}
		r.logger.Warn("Discarding undecodable mount cache entry", zap.String("key", key))
		observability.SnapshotCacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, store.ErrMiss):
		observability.SnapshotCacheLookups.WithLabelValues("miss").Inc()
	default:
		r.logger.Warn("Mount cache read failed", zap.String("key", key), zap.Error(err))
		observability.SnapshotCacheLookups.WithLabelValues("error").Inc()
	}

	mounts, err := r.next.ListMountActionsByConfiguration(ctx, configurationID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(mounts); err == nil {
		if err := r.kv.Set(ctx, key, string(data), r.ttl); err != nil {
			r.logger.Warn("Mount cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return mounts, nil
}

func (r *CachedMountActionsRepo) ListMountActionsByEquipment(ctx context.Context, kind domain.EquipmentKind, ids []string) ([]domain.MountAction, error) {
	return r.next.ListMountActionsByEquipment(ctx, kind, ids)
}

// Invalidate 删除配置的缓存；configurationID 为空时清空全部
func (r *CachedMountActionsRepo) Invalidate(ctx context.Context, configurationID string) error {
	if configurationID != "" {
		return r.kv.Delete(ctx, mountCacheKey(configurationID))
	}
	keys, err := r.kv.ScanKeys(ctx, mountCachePrefix+"*")
	if err != nil {
		return err
	}
	return r.kv.Delete(ctx, keys...)
}
