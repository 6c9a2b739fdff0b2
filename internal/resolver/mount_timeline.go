package resolver

import (
	"sort"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

// MountTimeline 安装记录的内存索引（按设备、按配置）
// 每次查询构建一次；索引保留记录的原始顺序（即创建顺序），不按 begin_date 重排
type MountTimeline struct {
	mounts          []domain.MountAction
	byEquipment     map[string][]int
	byConfiguration map[string][]int
}

// NewMountTimeline 构建索引
func NewMountTimeline(mounts []domain.MountAction) *MountTimeline {
	t := &MountTimeline{
		mounts:          mounts,
		byEquipment:     make(map[string][]int),
		byConfiguration: make(map[string][]int),
	}
	for i, m := range mounts {
		key := m.Equipment().Key()
		t.byEquipment[key] = append(t.byEquipment[key], i)
		t.byConfiguration[m.ConfigurationID] = append(t.byConfiguration[m.ConfigurationID], i)
	}
	return t
}

// Len 记录数
func (t *MountTimeline) Len() int {
	return len(t.mounts)
}

// FindOverlaps 返回设备所有与 [from, to) 相交的安装记录
func (t *MountTimeline) FindOverlaps(ref domain.EquipmentRef, from time.Time, to *time.Time) []domain.MountAction {
	var out []domain.MountAction
	for _, i := range t.byEquipment[ref.Key()] {
		if MountInterval(t.mounts[i]).Overlaps(from, to) {
			out = append(out, t.mounts[i])
		}
	}
	return out
}

// FindActiveAt 返回配置下在 at 时刻生效的所有安装记录（device 和 platform）
func (t *MountTimeline) FindActiveAt(configurationID string, at time.Time) []domain.MountAction {
	var out []domain.MountAction
	for _, i := range t.byConfiguration[configurationID] {
		if MountInterval(t.mounts[i]).ContainsInstant(at) {
			out = append(out, t.mounts[i])
		}
	}
	return out
}

// TimepointType 时间点类型
type TimepointType string

const (
	DeviceMount     TimepointType = "device_mount"
	DeviceUnmount   TimepointType = "device_unmount"
	PlatformMount   TimepointType = "platform_mount"
	PlatformUnmount TimepointType = "platform_unmount"
)

// Timepoint 配置的一次安装或卸载
type Timepoint struct {
	Timepoint time.Time
	Type      TimepointType
	MountID   string
	Equipment domain.EquipmentRef
}

// Timepoints 配置下所有安装/卸载时间点，按时间排序，同一时刻保持记录顺序
func (t *MountTimeline) Timepoints(configurationID string) []Timepoint {
	out := []Timepoint{}
	for _, i := range t.byConfiguration[configurationID] {
		m := t.mounts[i]
		mountType, unmountType := DeviceMount, DeviceUnmount
		if m.Kind == domain.KindPlatform {
			mountType, unmountType = PlatformMount, PlatformUnmount
		}
		out = append(out, Timepoint{Timepoint: m.BeginDate, Type: mountType, MountID: m.ID, Equipment: m.Equipment()})
		if m.EndDate != nil {
			out = append(out, Timepoint{Timepoint: *m.EndDate, Type: unmountType, MountID: m.ID, Equipment: m.Equipment()})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Timepoint.Before(out[b].Timepoint)
	})
	return out
}
