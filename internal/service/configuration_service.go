package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/sensor-management-system/orchestration-sub007/internal/observability"
	"github.com/sensor-management-system/orchestration-sub007/internal/repository"
	"github.com/sensor-management-system/orchestration-sub007/internal/resolver"

	"go.uber.org/zap"
)

// ConfigurationService 配置的时间点查询服务接口
type ConfigurationService interface {
	// GetHierarchy 某一时刻生效的安装层级
	GetHierarchy(ctx context.Context, req HierarchyRequest) (*HierarchyResponse, error)

	// GetParameterValues 某一时刻的参数值
	GetParameterValues(ctx context.Context, req ParameterValuesRequest) (*ParameterValuesResponse, error)

	// GetTimepoints 配置的全部安装/卸载时刻
	GetTimepoints(ctx context.Context, req TimepointsRequest) (*TimepointsResponse, error)
}

// configurationService 实现
type configurationService struct {
	configurationsRepo repository.ConfigurationsRepository
	equipmentRepo      repository.EquipmentRepository
	mountsRepo         repository.MountActionsRepository
	parametersRepo     repository.ParametersRepository
	logger             *zap.Logger
}

// NewConfigurationService 创建 ConfigurationService 实例
func NewConfigurationService(
	configurationsRepo repository.ConfigurationsRepository,
	equipmentRepo repository.EquipmentRepository,
	mountsRepo repository.MountActionsRepository,
	parametersRepo repository.ParametersRepository,
	logger *zap.Logger,
) ConfigurationService {
	return &configurationService{
		configurationsRepo: configurationsRepo,
		equipmentRepo:      equipmentRepo,
		mountsRepo:         mountsRepo,
		parametersRepo:     parametersRepo,
		logger:             logger,
	}
}

// HierarchyRequest 层级查询请求
type HierarchyRequest struct {
	ConfigurationID string    // 必填
	Timepoint       time.Time // 必填
}

// HierarchyResponse 层级查询响应
type HierarchyResponse struct {
	Configuration domain.Configuration
	Forest        []*resolver.Node
}

// ParameterValuesRequest 参数值查询请求
type ParameterValuesRequest struct {
	ConfigurationID string    // 必填
	Timepoint       time.Time // 必填
}

// ParameterValuesResponse 参数值查询响应
type ParameterValuesResponse struct {
	Items []resolver.ParameterValue
}

// TimepointsRequest 时刻列表请求
type TimepointsRequest struct {
	ConfigurationID string // 必填
}

// TimepointsResponse 时刻列表响应
type TimepointsResponse struct {
	Items []resolver.Timepoint
}

// GetHierarchy 查询层级
func (s *configurationService) GetHierarchy(ctx context.Context, req HierarchyRequest) (resp *HierarchyResponse, err error) {
	defer func(start time.Time) { observe(observability.QueryHierarchy, start, err) }(time.Now())

	snapshot, err := s.loadSnapshot(ctx, req.ConfigurationID, false)
	if err != nil {
		return nil, err
	}

	forest, err := resolver.ResolveHierarchy(snapshot, req.Timepoint)
	if err != nil {
		if errors.Is(err, resolver.ErrCyclicHierarchy) || errors.Is(err, resolver.ErrEquipmentNotFound) {
			s.logger.Error("Inconsistent mount hierarchy",
				zap.String("configuration_id", req.ConfigurationID),
				zap.Time("timepoint", req.Timepoint),
				zap.Error(err),
			)
		}
		return nil, err
	}

	return &HierarchyResponse{Configuration: *snapshot.Configuration, Forest: forest}, nil
}

// GetParameterValues 查询参数值
func (s *configurationService) GetParameterValues(ctx context.Context, req ParameterValuesRequest) (resp *ParameterValuesResponse, err error) {
	defer func(start time.Time) { observe(observability.QueryParameterValues, start, err) }(time.Now())

	snapshot, err := s.loadSnapshot(ctx, req.ConfigurationID, true)
	if err != nil {
		return nil, err
	}

	items, err := resolver.ResolveConfigurationParameters(snapshot, req.Timepoint)
	if err != nil {
		return nil, err
	}
	return &ParameterValuesResponse{Items: items}, nil
}

// GetTimepoints 查询安装/卸载时刻
func (s *configurationService) GetTimepoints(ctx context.Context, req TimepointsRequest) (resp *TimepointsResponse, err error) {
	defer func(start time.Time) { observe(observability.QueryTimepoints, start, err) }(time.Now())

	if _, err := s.getConfiguration(ctx, req.ConfigurationID); err != nil {
		return nil, err
	}
	mounts, err := s.listMounts(ctx, req.ConfigurationID)
	if err != nil {
		return nil, err
	}
	return &TimepointsResponse{Items: resolver.NewMountTimeline(mounts).Timepoints(req.ConfigurationID)}, nil
}

func (s *configurationService) getConfiguration(ctx context.Context, id string) (*domain.Configuration, error) {
	c, err := s.configurationsRepo.GetConfiguration(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", resolver.ErrConfigurationNotFound, id)
		}
		s.logger.Error("GetConfiguration failed",
			zap.String("configuration_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return c, nil
}

func (s *configurationService) listMounts(ctx context.Context, configurationID string) ([]domain.MountAction, error) {
	mounts, err := s.mountsRepo.ListMountActionsByConfiguration(ctx, configurationID)
	if err != nil {
		s.logger.Error("ListMountActionsByConfiguration failed",
			zap.String("configuration_id", configurationID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to load mount actions: %w", err)
	}
	return mounts, nil
}

// loadSnapshot 一次性读取配置、安装记录、被安装的设备（以及参数）
func (s *configurationService) loadSnapshot(ctx context.Context, configurationID string, withParameters bool) (resolver.Snapshot, error) {
	var snapshot resolver.Snapshot

	c, err := s.getConfiguration(ctx, configurationID)
	if err != nil {
		return snapshot, err
	}
	snapshot.Configuration = c

	if snapshot.Mounts, err = s.listMounts(ctx, configurationID); err != nil {
		return snapshot, err
	}

	idsByKind := map[domain.EquipmentKind][]string{}
	seen := map[string]bool{}
	for _, m := range snapshot.Mounts {
		ref := m.Equipment()
		if seen[ref.Key()] {
			continue
		}
		seen[ref.Key()] = true
		idsByKind[ref.Kind] = append(idsByKind[ref.Kind], ref.ID)
	}

	for _, kind := range []domain.EquipmentKind{domain.KindPlatform, domain.KindDevice} {
		if len(idsByKind[kind]) == 0 {
			continue
		}
		items, err := s.equipmentRepo.ListEquipment(ctx, kind, idsByKind[kind])
		if err != nil {
			s.logger.Error("ListEquipment failed",
				zap.String("configuration_id", configurationID),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			return snapshot, fmt.Errorf("failed to load %s records: %w", kind, err)
		}
		snapshot.Equipment = append(snapshot.Equipment, items...)
	}

	if !withParameters {
		return snapshot, nil
	}

	owners := []repository.ParameterOwner{{Kind: domain.OwnerConfiguration, ID: configurationID}}
	for _, id := range idsByKind[domain.KindPlatform] {
		owners = append(owners, repository.ParameterOwner{Kind: domain.OwnerPlatform, ID: id})
	}
	for _, id := range idsByKind[domain.KindDevice] {
		owners = append(owners, repository.ParameterOwner{Kind: domain.OwnerDevice, ID: id})
	}

	if snapshot.Parameters, err = s.parametersRepo.ListParameters(ctx, owners); err != nil {
		s.logger.Error("ListParameters failed", zap.String("configuration_id", configurationID), zap.Error(err))
		return snapshot, fmt.Errorf("failed to load parameters: %w", err)
	}
	if len(snapshot.Parameters) == 0 {
		return snapshot, nil
	}

	refs := make([]domain.ParameterRef, 0, len(snapshot.Parameters))
	for _, p := range snapshot.Parameters {
		refs = append(refs, p.Ref())
	}
	if snapshot.ValueChanges, err = s.parametersRepo.ListValueChanges(ctx, refs); err != nil {
		s.logger.Error("ListValueChanges failed", zap.String("configuration_id", configurationID), zap.Error(err))
		return snapshot, fmt.Errorf("failed to load parameter value changes: %w", err)
	}
	return snapshot, nil
}
