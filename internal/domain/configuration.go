package domain

// Configuration 配置（设备部署的顶层分组，对应 configurations 表）
type Configuration struct {
	ID         string `db:"id"`
	Label      string `db:"label"`
	Status     string `db:"status"` // draft / in use
	IsPublic   bool   `db:"is_public"`
	IsInternal bool   `db:"is_internal"`
	Archived   bool   `db:"archived"`
}

// ArchiveTarget 待归档实体
type ArchiveTarget struct {
	Entity ArchiveEntity
	ID     string
}

// ArchiveEntity 可归档的实体类型
type ArchiveEntity string

const (
	ArchiveDevice        ArchiveEntity = "device"
	ArchivePlatform      ArchiveEntity = "platform"
	ArchiveConfiguration ArchiveEntity = "configuration"
)

// ArchivalRecords 归档检查所需的记录（在同一事务中读取）
type ArchivalRecords struct {
	Archived  bool
	Mounts    []MountAction
	Locations []LocationAction
}
