package domain

// EquipmentKind 设备类型：device 或 platform
// device 与 platform 分属不同的表，ID 空间互相独立
type EquipmentKind string

const (
	KindDevice   EquipmentKind = "device"
	KindPlatform EquipmentKind = "platform"
)

// Valid 是否为已知类型
func (k EquipmentKind) Valid() bool {
	return k == KindDevice || k == KindPlatform
}

// EquipmentRef 设备引用（kind + id 才能唯一确定一台设备）
type EquipmentRef struct {
	Kind EquipmentKind
	ID   string
}

// Key 用作 map 键
func (r EquipmentRef) Key() string {
	return string(r.Kind) + ":" + r.ID
}

// Equipment 设备/平台领域模型（对应 devices / platforms 表）
// 可见性标记只被读取，不在引擎内做权限判断
type Equipment struct {
	ID           string        `db:"id"`
	Kind         EquipmentKind `db:"-"`
	ShortName    string        `db:"short_name"`
	LongName     string        `db:"long_name"`
	Manufacturer string        `db:"manufacturer_name"`
	Model        string        `db:"model"`
	SerialNumber string        `db:"serial_number"`

	IsPublic   bool `db:"is_public"`
	IsInternal bool `db:"is_internal"`
	IsPrivate  bool `db:"is_private"`
	Archived   bool `db:"archived"`
}

// Ref 返回设备引用
func (e Equipment) Ref() EquipmentRef {
	return EquipmentRef{Kind: e.Kind, ID: e.ID}
}

// ToJSON 转换为JSON格式（用于HTTP响应）
func (e Equipment) ToJSON() map[string]any {
	return map[string]any{
		"id":   e.ID,
		"type": string(e.Kind),
		"attributes": map[string]any{
			"short_name":        e.ShortName,
			"long_name":         e.LongName,
			"manufacturer_name": e.Manufacturer,
			"model":             e.Model,
			"serial_number":     e.SerialNumber,
			"is_public":         e.IsPublic,
			"is_internal":       e.IsInternal,
			"is_private":        e.IsPrivate,
			"archived":          e.Archived,
		},
	}
}
