package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

var (
	// ErrConfigurationNotFound 查询的配置不存在
	ErrConfigurationNotFound = errors.New("configuration not found")

	// ErrCyclicHierarchy 父子平台关系成环；写入侧校验正常时不应出现
	ErrCyclicHierarchy = errors.New("cyclic mount hierarchy")

	// ErrEquipmentNotFound 生效的安装记录引用了快照中不存在的设备
	ErrEquipmentNotFound = errors.New("mounted equipment not found")

	// ErrAlreadyArchived 实体已归档
	ErrAlreadyArchived = errors.New("entity is already archived")
)

// PreconditionViolation 归档前置检查失败
type PreconditionViolation struct {
	Rule     string
	Entity   domain.ArchiveEntity
	EntityID string
	// ActionIDs 仍未结束（或结束时间在未来）的记录
	ActionIDs []string
	Message   string
}

func (v *PreconditionViolation) Error() string {
	if len(v.ActionIDs) == 0 {
		return v.Message
	}
	return fmt.Sprintf("%s (%s)", v.Message, strings.Join(v.ActionIDs, ", "))
}

// IsPreconditionViolation 判断 err 是否为归档前置检查失败
func IsPreconditionViolation(err error) (*PreconditionViolation, bool) {
	var v *PreconditionViolation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
