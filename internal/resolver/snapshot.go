package resolver

import "github.com/sensor-management-system/orchestration-sub007/internal/domain"

// Snapshot 一次请求所需的只读记录（已经过权限过滤）
// 引擎只读取，不修改
type Snapshot struct {
	// Configuration 为 nil 表示配置不存在
	Configuration *domain.Configuration

	Mounts       []domain.MountAction
	Equipment    []domain.Equipment
	Parameters   []domain.Parameter
	ValueChanges []domain.ParameterValueChangeAction
}

func indexEquipment(items []domain.Equipment) map[string]domain.Equipment {
	m := make(map[string]domain.Equipment, len(items))
	for _, e := range items {
		m[e.Ref().Key()] = e
	}
	return m
}
