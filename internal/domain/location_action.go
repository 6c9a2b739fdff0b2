package domain

import "time"

// LocationKind 位置记录类型
type LocationKind string

const (
	LocationStatic  LocationKind = "static"
	LocationDynamic LocationKind = "dynamic"
)

// LocationAction 配置的位置记录（configuration_static_location_actions /
// configuration_dynamic_location_actions），只用于归档前置检查
type LocationAction struct {
	ID              string       `db:"id"`
	Kind            LocationKind `db:"-"`
	ConfigurationID string       `db:"configuration_id"`
	BeginDate       time.Time    `db:"begin_date"`
	EndDate         *time.Time   `db:"end_date"`

	// static
	X        *float64 `db:"x"`
	Y        *float64 `db:"y"`
	Z        *float64 `db:"z"`
	EPSGCode string   `db:"epsg_code"`

	// dynamic：坐标来自设备属性
	XPropertyID *string `db:"x_property_id"`
	YPropertyID *string `db:"y_property_id"`
	ZPropertyID *string `db:"z_property_id"`
}
