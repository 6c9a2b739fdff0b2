package resolver

import (
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

// AvailabilityRecord 可用性结果
// 不可用时每条相交的安装记录各输出一条，同一 ID 可能出现多次
type AvailabilityRecord struct {
	ID        string
	Available bool

	MountID         string
	ConfigurationID string
	BeginDate       time.Time
	EndDate         *time.Time
}

// CalculateAvailability 计算 ids 在 [from, to) 内的可用性；to 为 nil 表示无上界
// ids 应已按权限过滤；空列表返回空结果
func CalculateAvailability(kind domain.EquipmentKind, ids []string, from time.Time, to *time.Time, timeline *MountTimeline) []AvailabilityRecord {
	out := make([]AvailabilityRecord, 0, len(ids))
	for _, id := range ids {
		overlaps := timeline.FindOverlaps(domain.EquipmentRef{Kind: kind, ID: id}, from, to)
		if len(overlaps) == 0 {
			out = append(out, AvailabilityRecord{ID: id, Available: true})
			continue
		}
		for _, m := range overlaps {
			out = append(out, AvailabilityRecord{
				ID:              id,
				Available:       false,
				MountID:         m.ID,
				ConfigurationID: m.ConfigurationID,
				BeginDate:       m.BeginDate,
				EndDate:         m.EndDate,
			})
		}
	}
	return out
}
