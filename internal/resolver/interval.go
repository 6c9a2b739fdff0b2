package resolver

import (
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

// Interval 时间区间 [Begin, End)，End 为 nil 表示无上界
type Interval struct {
	Begin time.Time
	End   *time.Time
}

// MountInterval 安装记录的区间
func MountInterval(m domain.MountAction) Interval {
	return Interval{Begin: m.BeginDate, End: m.EndDate}
}

// LocationInterval 位置记录的区间
func LocationInterval(l domain.LocationAction) Interval {
	return Interval{Begin: l.BeginDate, End: l.EndDate}
}

// Overlaps 是否与查询区间 [from, to) 相交；to 为 nil 表示查询区间无上界
func (i Interval) Overlaps(from time.Time, to *time.Time) bool {
	if to != nil && !i.Begin.Before(*to) {
		return false
	}
	return i.End == nil || i.End.After(from)
}

// ContainsInstant 时间点查询，两端都包含：
// 开始和结束都等于 t 的安装记录在 t 时刻仍视为生效
func (i Interval) ContainsInstant(t time.Time) bool {
	if i.Begin.After(t) {
		return false
	}
	return i.End == nil || !t.After(*i.End)
}

// IsOpenOrFuture 未结束，或结束时间晚于 now
func (i Interval) IsOpenOrFuture(now time.Time) bool {
	return i.End == nil || i.End.After(now)
}
