package resolver

import (
	"fmt"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

// Precondition 归档前置规则
type Precondition interface {
	Rule() string
	Check(now time.Time) *PreconditionViolation
}

// 规则名，用于错误信息和指标标签
const (
	RuleDeviceMounts           = "device_mounts"
	RulePlatformMounts         = "platform_mounts"
	RuleParentInDeviceMounts   = "parent_platform_in_device_mounts"
	RuleParentInPlatformMounts = "parent_platform_in_platform_mounts"
	RuleConfigDeviceMounts     = "configuration_device_mounts"
	RuleConfigPlatformMounts   = "configuration_platform_mounts"
	RuleStaticLocationActions  = "static_location_actions"
	RuleDynamicLocationActions = "dynamic_location_actions"
)

type scopedInterval struct {
	id       string
	interval Interval
}

// intervalRule 范围内任一区间未结束或结束于 now 之后即失败
type intervalRule struct {
	rule     string
	entity   domain.ArchiveEntity
	entityID string
	message  string
	items    []scopedInterval
}

func (r intervalRule) Rule() string { return r.rule }

func (r intervalRule) Check(now time.Time) *PreconditionViolation {
	var blocking []string
	for _, it := range r.items {
		if it.interval.IsOpenOrFuture(now) {
			blocking = append(blocking, it.id)
		}
	}
	if len(blocking) == 0 {
		return nil
	}
	return &PreconditionViolation{
		Rule:      r.rule,
		Entity:    r.entity,
		EntityID:  r.entityID,
		ActionIDs: blocking,
		Message:   r.message,
	}
}

func mountRule(rule string, entity domain.ArchiveEntity, entityID, message string,
	mounts []domain.MountAction, match func(domain.MountAction) bool) Precondition {
	r := intervalRule{rule: rule, entity: entity, entityID: entityID, message: message}
	for _, m := range mounts {
		if match(m) {
			r.items = append(r.items, scopedInterval{id: m.ID, interval: MountInterval(m)})
		}
	}
	return r
}

func locationRule(rule, configurationID, message string, kind domain.LocationKind, locations []domain.LocationAction) Precondition {
	r := intervalRule{rule: rule, entity: domain.ArchiveConfiguration, entityID: configurationID, message: message}
	for _, l := range locations {
		if l.Kind == kind && l.ConfigurationID == configurationID {
			r.items = append(r.items, scopedInterval{id: l.ID, interval: LocationInterval(l)})
		}
	}
	return r
}

func isParent(m domain.MountAction, platformID string) bool {
	return m.HasParent() && *m.ParentPlatformID == platformID
}

// DeviceMountsOfDevice 设备自身的安装记录
func DeviceMountsOfDevice(deviceID string, mounts []domain.MountAction) Precondition {
	return mountRule(RuleDeviceMounts, domain.ArchiveDevice, deviceID,
		fmt.Sprintf("device %s is still mounted or its mount ends in the future", deviceID),
		mounts, func(m domain.MountAction) bool {
			return m.Kind == domain.KindDevice && m.EquipmentID == deviceID
		})
}

// PlatformMountsOfPlatform 平台自身的安装记录
func PlatformMountsOfPlatform(platformID string, mounts []domain.MountAction) Precondition {
	return mountRule(RulePlatformMounts, domain.ArchivePlatform, platformID,
		fmt.Sprintf("platform %s is still mounted or its mount ends in the future", platformID),
		mounts, func(m domain.MountAction) bool {
			return m.Kind == domain.KindPlatform && m.EquipmentID == platformID
		})
}

// ParentPlatformInDeviceMounts 以该平台为父平台的设备安装记录
func ParentPlatformInDeviceMounts(platformID string, mounts []domain.MountAction) Precondition {
	return mountRule(RuleParentInDeviceMounts, domain.ArchivePlatform, platformID,
		fmt.Sprintf("platform %s is still used as parent platform of device mounts", platformID),
		mounts, func(m domain.MountAction) bool {
			return m.Kind == domain.KindDevice && isParent(m, platformID)
		})
}

// ParentPlatformInPlatformMounts 以该平台为父平台的平台安装记录
func ParentPlatformInPlatformMounts(platformID string, mounts []domain.MountAction) Precondition {
	return mountRule(RuleParentInPlatformMounts, domain.ArchivePlatform, platformID,
		fmt.Sprintf("platform %s is still used as parent platform of platform mounts", platformID),
		mounts, func(m domain.MountAction) bool {
			return m.Kind == domain.KindPlatform && isParent(m, platformID)
		})
}

// DeviceMountsOfConfiguration 配置下的设备安装记录
func DeviceMountsOfConfiguration(configurationID string, mounts []domain.MountAction) Precondition {
	return mountRule(RuleConfigDeviceMounts, domain.ArchiveConfiguration, configurationID,
		fmt.Sprintf("configuration %s still has device mounts that are open or end in the future", configurationID),
		mounts, func(m domain.MountAction) bool {
			return m.Kind == domain.KindDevice && m.ConfigurationID == configurationID
		})
}

// PlatformMountsOfConfiguration 配置下的平台安装记录
func PlatformMountsOfConfiguration(configurationID string, mounts []domain.MountAction) Precondition {
	return mountRule(RuleConfigPlatformMounts, domain.ArchiveConfiguration, configurationID,
		fmt.Sprintf("configuration %s still has platform mounts that are open or end in the future", configurationID),
		mounts, func(m domain.MountAction) bool {
			return m.Kind == domain.KindPlatform && m.ConfigurationID == configurationID
		})
}

// StaticLocationsOfConfiguration 配置的静态位置记录
func StaticLocationsOfConfiguration(configurationID string, locations []domain.LocationAction) Precondition {
	return locationRule(RuleStaticLocationActions, configurationID,
		fmt.Sprintf("configuration %s still has static locations that are open or end in the future", configurationID),
		domain.LocationStatic, locations)
}

// DynamicLocationsOfConfiguration 配置的动态位置记录
func DynamicLocationsOfConfiguration(configurationID string, locations []domain.LocationAction) Precondition {
	return locationRule(RuleDynamicLocationActions, configurationID,
		fmt.Sprintf("configuration %s still has dynamic locations that are open or end in the future", configurationID),
		domain.LocationDynamic, locations)
}

// DeviceArchivalChecks 设备归档规则
func DeviceArchivalChecks(deviceID string, mounts []domain.MountAction) []Precondition {
	return []Precondition{DeviceMountsOfDevice(deviceID, mounts)}
}

// PlatformArchivalChecks 平台归档规则
// mounts 需包含平台自身的安装记录，以及以它为父平台的安装记录
func PlatformArchivalChecks(platformID string, mounts []domain.MountAction) []Precondition {
	return []Precondition{
		PlatformMountsOfPlatform(platformID, mounts),
		ParentPlatformInDeviceMounts(platformID, mounts),
		ParentPlatformInPlatformMounts(platformID, mounts),
	}
}

// ConfigurationArchivalChecks 配置归档规则
func ConfigurationArchivalChecks(configurationID string, mounts []domain.MountAction, locations []domain.LocationAction) []Precondition {
	return []Precondition{
		DeviceMountsOfConfiguration(configurationID, mounts),
		PlatformMountsOfConfiguration(configurationID, mounts),
		StaticLocationsOfConfiguration(configurationID, locations),
		DynamicLocationsOfConfiguration(configurationID, locations),
	}
}

// CheckArchival 依次执行规则，遇到第一条失败即返回
func CheckArchival(clock Clock, checks ...Precondition) error {
	now := clock.Now()
	for _, c := range checks {
		if v := c.Check(now); v != nil {
			return v
		}
	}
	return nil
}

// EvaluateArchival 归档闸门：实体已归档返回 ErrAlreadyArchived，否则执行该实体的规则集
func EvaluateArchival(target domain.ArchiveTarget, records domain.ArchivalRecords, clock Clock) error {
	if records.Archived {
		return fmt.Errorf("%w: %s %s", ErrAlreadyArchived, target.Entity, target.ID)
	}

	var checks []Precondition
	switch target.Entity {
	case domain.ArchiveDevice:
		checks = DeviceArchivalChecks(target.ID, records.Mounts)
	case domain.ArchivePlatform:
		checks = PlatformArchivalChecks(target.ID, records.Mounts)
	case domain.ArchiveConfiguration:
		checks = ConfigurationArchivalChecks(target.ID, records.Mounts, records.Locations)
	default:
		return fmt.Errorf("unknown archive entity %q", target.Entity)
	}
	return CheckArchival(clock, checks...)
}
