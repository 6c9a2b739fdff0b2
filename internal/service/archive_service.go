package service

import (
	"context"
	"errors"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/sensor-management-system/orchestration-sub007/internal/observability"
	"github.com/sensor-management-system/orchestration-sub007/internal/repository"
	"github.com/sensor-management-system/orchestration-sub007/internal/resolver"

	"go.uber.org/zap"
)

// CacheInvalidator 安装记录缓存失效；configurationID 为空表示全部
type CacheInvalidator interface {
	Invalidate(ctx context.Context, configurationID string) error
}

// ArchiveService 归档服务接口
type ArchiveService interface {
	Archive(ctx context.Context, req ArchiveRequest) error
}

// archiveService 实现
type archiveService struct {
	archivalRepo repository.ArchivalRepository
	cache        CacheInvalidator // 可为 nil
	clock        resolver.Clock
	logger       *zap.Logger
}

// NewArchiveService 创建 ArchiveService 实例；cache 可为 nil
func NewArchiveService(archivalRepo repository.ArchivalRepository, cache CacheInvalidator, clock resolver.Clock, logger *zap.Logger) ArchiveService {
	if clock == nil {
		clock = resolver.SystemClock{}
	}
	return &archiveService{
		archivalRepo: archivalRepo,
		cache:        cache,
		clock:        clock,
		logger:       logger,
	}
}

// ArchiveRequest 归档请求
type ArchiveRequest struct {
	Entity domain.ArchiveEntity // 必填
	ID     string               // 必填
}

// Archive 检查前置规则后归档
// 规则不满足返回 *resolver.PreconditionViolation；已归档返回 resolver.ErrAlreadyArchived
func (s *archiveService) Archive(ctx context.Context, req ArchiveRequest) (err error) {
	defer func(start time.Time) { observe(observability.QueryArchive, start, err) }(time.Now())

	target := domain.ArchiveTarget{Entity: req.Entity, ID: req.ID}
	err = s.archivalRepo.Archive(ctx, target, func(records domain.ArchivalRecords) error {
		return resolver.EvaluateArchival(target, records, s.clock)
	})
	if err != nil {
		if v, ok := resolver.IsPreconditionViolation(err); ok {
			observability.ArchivalRejections.WithLabelValues(string(req.Entity), v.Rule).Inc()
			s.logger.Info("Archive rejected",
				zap.String("entity", string(req.Entity)),
				zap.String("id", req.ID),
				zap.String("rule", v.Rule),
				zap.Strings("action_ids", v.ActionIDs),
			)
			return err
		}
		if errors.Is(err, resolver.ErrAlreadyArchived) || errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.logger.Error("Archive failed",
			zap.String("entity", string(req.Entity)),
			zap.String("id", req.ID),
			zap.Error(err),
		)
		return err
	}

	if s.cache != nil && req.Entity == domain.ArchiveConfiguration {
		if err := s.cache.Invalidate(ctx, req.ID); err != nil {
			s.logger.Warn("Mount cache invalidation failed",
				zap.String("configuration_id", req.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}
