package resolver

import (
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

// ResolveValue 返回 date <= t 的最新一条变更；同一时刻取最后写入的一条
// 没有符合条件的记录时返回 nil（参数未设置是正常状态）
func ResolveValue(log []domain.ParameterValueChangeAction, t time.Time) *domain.ParameterValueChangeAction {
	var best *domain.ParameterValueChangeAction
	for i := range log {
		c := &log[i]
		if c.Date.After(t) {
			continue
		}
		if best == nil || !c.Date.Before(best.Date) {
			best = c
		}
	}
	return best
}

// ParameterValue 参数在某一时刻的取值
type ParameterValue struct {
	Parameter domain.Parameter
	// Value 为 nil 表示该时刻尚无取值
	Value *string
}

// TypeName 如 configuration_parameter / device_parameter / platform_parameter
func (v ParameterValue) TypeName() string {
	return v.Parameter.OwnerKind.TypeName()
}

// ResolveConfigurationParameters 配置在 t 时刻的参数值
//
// 配置自身的参数始终在范围内；设备/平台的参数只有在该设备 t 时刻
// 安装在此配置下时才输出。顺序：配置参数、平台参数、设备参数。
func ResolveConfigurationParameters(s Snapshot, t time.Time) ([]ParameterValue, error) {
	if s.Configuration == nil {
		return nil, ErrConfigurationNotFound
	}

	mounted := make(map[string]bool)
	for _, m := range NewMountTimeline(s.Mounts).FindActiveAt(s.Configuration.ID, t) {
		mounted[m.Equipment().Key()] = true
	}

	logs := make(map[string][]domain.ParameterValueChangeAction)
	for _, c := range s.ValueChanges {
		key := c.Parameter().Key()
		logs[key] = append(logs[key], c)
	}

	inScope := func(p domain.Parameter) bool {
		switch p.OwnerKind {
		case domain.OwnerConfiguration:
			return p.OwnerID == s.Configuration.ID
		case domain.OwnerPlatform:
			return mounted[domain.EquipmentRef{Kind: domain.KindPlatform, ID: p.OwnerID}.Key()]
		case domain.OwnerDevice:
			return mounted[domain.EquipmentRef{Kind: domain.KindDevice, ID: p.OwnerID}.Key()]
		}
		return false
	}

	out := []ParameterValue{}
	for _, kind := range []domain.ParameterOwnerKind{domain.OwnerConfiguration, domain.OwnerPlatform, domain.OwnerDevice} {
		for _, p := range s.Parameters {
			if p.OwnerKind != kind || !inScope(p) {
				continue
			}
			pv := ParameterValue{Parameter: p}
			if c := ResolveValue(logs[p.Ref().Key()], t); c != nil {
				v := c.Value
				pv.Value = &v
			}
			out = append(out, pv)
		}
	}
	return out, nil
}
