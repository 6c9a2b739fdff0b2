package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

// ErrNotFound 记录不存在（sql.ErrNoRows 统一转换为该错误）
var ErrNotFound = errors.New("record not found")

// ConfigurationsRepository 配置Repository接口
type ConfigurationsRepository interface {
	// GetConfiguration 按 ID 获取配置；不存在返回 ErrNotFound
	GetConfiguration(ctx context.Context, id string) (*domain.Configuration, error)
}

// EquipmentRepository 设备/平台Repository接口
type EquipmentRepository interface {
	// ListEquipment 按 ID 批量获取同一类型的设备；不存在的 ID 直接忽略
	// 返回顺序与 ids 一致
	ListEquipment(ctx context.Context, kind domain.EquipmentKind, ids []string) ([]domain.Equipment, error)
}

// MountActionsRepository 安装记录Repository接口
// 返回顺序均为写入顺序（created_at, id）
type MountActionsRepository interface {
	// ListMountActionsByConfiguration 配置下的全部设备与平台安装记录
	ListMountActionsByConfiguration(ctx context.Context, configurationID string) ([]domain.MountAction, error)

	// ListMountActionsByEquipment 一批设备（同一类型）的全部安装记录
	ListMountActionsByEquipment(ctx context.Context, kind domain.EquipmentKind, ids []string) ([]domain.MountAction, error)
}

// ParameterOwner 参数所属实体
type ParameterOwner struct {
	Kind domain.ParameterOwnerKind
	ID   string
}

// ParametersRepository 参数Repository接口
type ParametersRepository interface {
	// ListParameters 一批实体的全部参数，按 owners 顺序分组，组内按写入顺序
	ListParameters(ctx context.Context, owners []ParameterOwner) ([]domain.Parameter, error)

	// ListValueChanges 参数的值变更日志，按写入顺序
	ListValueChanges(ctx context.Context, refs []domain.ParameterRef) ([]domain.ParameterValueChangeAction, error)
}

// ArchiveGate 归档闸门，在持有实体行锁时执行；返回错误则放弃归档
type ArchiveGate func(records domain.ArchivalRecords) error

// ArchivalRepository 归档Repository接口
type ArchivalRepository interface {
	// Archive 读取归档检查所需记录并执行 gate，通过后设置 archived 标记
	// 读取、检查与写入在同一事务中完成；实体不存在返回 ErrNotFound
	Archive(ctx context.Context, target domain.ArchiveTarget, gate ArchiveGate) error
}

// queryer *sql.DB 与 *sql.Tx 的公共部分
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
