package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/sensor-management-system/orchestration-sub007/internal/observability"
	"github.com/sensor-management-system/orchestration-sub007/internal/repository"
	"github.com/sensor-management-system/orchestration-sub007/internal/resolver"

	"go.uber.org/zap"
)

// AvailabilityService 设备/平台可用性查询服务接口
type AvailabilityService interface {
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error)
}

// availabilityService 实现
type availabilityService struct {
	equipmentRepo repository.EquipmentRepository
	mountsRepo    repository.MountActionsRepository
	logger        *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(equipmentRepo repository.EquipmentRepository, mountsRepo repository.MountActionsRepository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{
		equipmentRepo: equipmentRepo,
		mountsRepo:    mountsRepo,
		logger:        logger,
	}
}

// AvailabilityRequest 可用性查询请求
type AvailabilityRequest struct {
	Kind domain.EquipmentKind // 必填：device / platform
	IDs  []string             // 可为空
	From time.Time            // 必填
	To   *time.Time           // 可选，nil 表示无上界
}

// AvailabilityResponse 可用性查询响应
type AvailabilityResponse struct {
	Items []resolver.AvailabilityRecord
}

// CheckAvailability 查询 [from, to) 内的可用性
// 不存在或私有（is_private）的设备不参与计算，直接从结果中省略
func (s *availabilityService) CheckAvailability(ctx context.Context, req AvailabilityRequest) (resp *AvailabilityResponse, err error) {
	query := observability.QueryDeviceAvailability
	if req.Kind == domain.KindPlatform {
		query = observability.QueryPlatformAvailability
	}
	defer func(start time.Time) { observe(query, start, err) }(time.Now())

	if !req.Kind.Valid() {
		return nil, fmt.Errorf("unknown equipment kind %q", req.Kind)
	}
	if len(req.IDs) == 0 {
		return &AvailabilityResponse{Items: []resolver.AvailabilityRecord{}}, nil
	}

	equipment, err := s.equipmentRepo.ListEquipment(ctx, req.Kind, req.IDs)
	if err != nil {
		s.logger.Error("ListEquipment failed",
			zap.String("kind", string(req.Kind)),
			zap.Int("ids", len(req.IDs)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to load %s records: %w", req.Kind, err)
	}

	visible := make(map[string]bool, len(equipment))
	for _, e := range equipment {
		if !e.IsPrivate {
			visible[e.ID] = true
		}
	}
	ids := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		if visible[id] {
			ids = append(ids, id)
		}
	}
	if len(ids) < len(req.IDs) {
		s.logger.Debug("Dropped unknown or private equipment from availability query",
			zap.String("kind", string(req.Kind)),
			zap.Int("requested", len(req.IDs)),
			zap.Int("visible", len(ids)),
		)
	}
	if len(ids) == 0 {
		return &AvailabilityResponse{Items: []resolver.AvailabilityRecord{}}, nil
	}

	mounts, err := s.mountsRepo.ListMountActionsByEquipment(ctx, req.Kind, ids)
	if err != nil {
		s.logger.Error("ListMountActionsByEquipment failed",
			zap.String("kind", string(req.Kind)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to load mount actions: %w", err)
	}

	items := resolver.CalculateAvailability(req.Kind, ids, req.From, req.To, resolver.NewMountTimeline(mounts))
	return &AvailabilityResponse{Items: items}, nil
}
