package domain

import (
	"fmt"
	"time"
)

// MountAction 安装记录（对应 device_mount_actions / platform_mount_actions 表）
// 时间区间：[begin_date, end_date)，end_date 为 NULL 表示仍在安装中
// 卸载是更新 end_date，而不是新增记录
type MountAction struct {
	ID              string        `db:"id"`
	Kind            EquipmentKind `db:"-"`
	EquipmentID     string        `db:"equipment_id"`     // device_id / platform_id
	ConfigurationID string        `db:"configuration_id"` // NOT NULL
	// ParentPlatformID 父平台（可选），指向 platform.id 而不是 mount action id
	ParentPlatformID *string `db:"parent_platform_id"`

	BeginDate time.Time  `db:"begin_date"` // NOT NULL
	EndDate   *time.Time `db:"end_date"`   // nullable

	OffsetX float64 `db:"offset_x"`
	OffsetY float64 `db:"offset_y"`
	OffsetZ float64 `db:"offset_z"`

	BeginDescription string `db:"begin_description"`
	EndDescription   string `db:"end_description"`

	CreatedAt time.Time `db:"created_at"`
}

// Equipment 返回被安装设备的引用
func (m MountAction) Equipment() EquipmentRef {
	return EquipmentRef{Kind: m.Kind, ID: m.EquipmentID}
}

// HasParent 是否挂在父平台下
func (m MountAction) HasParent() bool {
	return m.ParentPlatformID != nil && *m.ParentPlatformID != ""
}

// Validate 校验 end_date >= begin_date
func (m MountAction) Validate() error {
	if m.BeginDate.IsZero() {
		return fmt.Errorf("mount action %s: begin_date is required", m.ID)
	}
	if m.EndDate != nil && m.EndDate.Before(m.BeginDate) {
		return fmt.Errorf("mount action %s: end_date %s is before begin_date %s",
			m.ID, m.EndDate.Format(time.RFC3339), m.BeginDate.Format(time.RFC3339))
	}
	return nil
}

// TypeName JSON:API 资源类型名
func (m MountAction) TypeName() string {
	return string(m.Kind) + "_mount_action"
}
