package domain

import "time"

// ParameterOwnerKind 参数所属实体类型
type ParameterOwnerKind string

const (
	OwnerConfiguration ParameterOwnerKind = "configuration"
	OwnerDevice        ParameterOwnerKind = "device"
	OwnerPlatform      ParameterOwnerKind = "platform"
)

// TypeName 输出中的参数类型名，如 device_parameter
func (k ParameterOwnerKind) TypeName() string {
	return string(k) + "_parameter"
}

// ParameterRef 参数引用；三种参数分表存储，ID 只在同类中唯一
type ParameterRef struct {
	OwnerKind ParameterOwnerKind
	ID        string
}

// Key 用作 map 键
func (r ParameterRef) Key() string {
	return string(r.OwnerKind) + ":" + r.ID
}

// Parameter 随时间变化的参数（configuration_parameters / device_parameters / platform_parameters）
type Parameter struct {
	ID          string             `db:"id"`
	OwnerKind   ParameterOwnerKind `db:"-"`
	OwnerID     string             `db:"owner_id"`
	Label       string             `db:"label"`
	Description string             `db:"description"`
	UnitName    string             `db:"unit_name"`
	UnitURI     string             `db:"unit_uri"`
}

// Ref 返回参数引用
func (p Parameter) Ref() ParameterRef {
	return ParameterRef{OwnerKind: p.OwnerKind, ID: p.ID}
}

// ParameterValueChangeAction 参数值变更记录（只追加）
// 排序键为 date；同一时刻的多条记录以最后写入的为准
type ParameterValueChangeAction struct {
	ID            string             `db:"id"`
	ParameterKind ParameterOwnerKind `db:"-"`
	ParameterID   string             `db:"parameter_id"`
	Date          time.Time          `db:"date"`
	Value         string             `db:"value"`
	Description   string             `db:"description"`
	CreatedAt     time.Time          `db:"created_at"`
}

// Parameter 返回所属参数引用
func (c ParameterValueChangeAction) Parameter() ParameterRef {
	return ParameterRef{OwnerKind: c.ParameterKind, ID: c.ParameterID}
}
