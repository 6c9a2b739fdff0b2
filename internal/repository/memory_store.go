package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

// MemoryStore: 用于 DB 未就绪时的联测与单元测试
// - 实现全部 Repository 接口
// - IDs 使用 uuid（调用方未指定时）
// - 切片顺序即写入顺序
type MemoryStore struct {
	mu sync.RWMutex

	configurations map[string]domain.Configuration
	equipment      map[string]domain.Equipment // ref key -> equipment
	mounts         []domain.MountAction
	locations      []domain.LocationAction
	parameters     []domain.Parameter
	valueChanges   []domain.ParameterValueChangeAction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configurations: map[string]domain.Configuration{},
		equipment:      map[string]domain.Equipment{},
	}
}

var (
	_ ConfigurationsRepository = (*MemoryStore)(nil)
	_ EquipmentRepository      = (*MemoryStore)(nil)
	_ MountActionsRepository   = (*MemoryStore)(nil)
	_ ParametersRepository     = (*MemoryStore)(nil)
	_ ArchivalRepository       = (*MemoryStore)(nil)
)

// ---- seed ----

func (s *MemoryStore) AddConfiguration(c domain.Configuration) domain.Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.configurations[c.ID] = c
	return c
}

func (s *MemoryStore) AddEquipment(e domain.Equipment) (domain.Equipment, error) {
	if !e.Kind.Valid() {
		return e, fmt.Errorf("unknown equipment kind %q", e.Kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	s.equipment[e.Ref().Key()] = e
	return e, nil
}

// AddMountAction 校验区间后追加安装记录
func (s *MemoryStore) AddMountAction(m domain.MountAction) (domain.MountAction, error) {
	if !m.Kind.Valid() {
		return m, fmt.Errorf("unknown equipment kind %q", m.Kind)
	}
	if err := m.Validate(); err != nil {
		return m, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.mounts = append(s.mounts, m)
	return m, nil
}

// EndMountAction 卸载：设置 end_date
func (s *MemoryStore) EndMountAction(kind domain.EquipmentKind, id string, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.mounts {
		m := &s.mounts[i]
		if m.Kind != kind || m.ID != id {
			continue
		}
		if end.Before(m.BeginDate) {
			return fmt.Errorf("mount action %s: end_date is before begin_date", id)
		}
		m.EndDate = &end
		return nil
	}
	return fmt.Errorf("%s mount action %s: %w", kind, id, ErrNotFound)
}

func (s *MemoryStore) AddLocationAction(l domain.LocationAction) domain.LocationAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	s.locations = append(s.locations, l)
	return l
}

func (s *MemoryStore) AddParameter(p domain.Parameter) domain.Parameter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.parameters = append(s.parameters, p)
	return p
}

func (s *MemoryStore) AddValueChange(c domain.ParameterValueChangeAction) domain.ParameterValueChangeAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.valueChanges = append(s.valueChanges, c)
	return c
}

// ---- repositories ----

func (s *MemoryStore) GetConfiguration(_ context.Context, id string) (*domain.Configuration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.configurations[id]
	if !ok {
		return nil, fmt.Errorf("configuration %s: %w", id, ErrNotFound)
	}
	return &c, nil
}

func (s *MemoryStore) ListEquipment(_ context.Context, kind domain.EquipmentKind, ids []string) ([]domain.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Equipment, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		e, ok := s.equipment[domain.EquipmentRef{Kind: kind, ID: id}.Key()]
		if ok && !seen[id] {
			seen[id] = true
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListMountActionsByConfiguration(_ context.Context, configurationID string) ([]domain.MountAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterMounts(func(m domain.MountAction) bool {
		return m.ConfigurationID == configurationID
	}), nil
}

func (s *MemoryStore) ListMountActionsByEquipment(_ context.Context, kind domain.EquipmentKind, ids []string) ([]domain.MountAction, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterMounts(func(m domain.MountAction) bool {
		return m.Kind == kind && want[m.EquipmentID]
	}), nil
}

func (s *MemoryStore) filterMounts(match func(domain.MountAction) bool) []domain.MountAction {
	out := []domain.MountAction{}
	for _, m := range s.mounts {
		if match(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s *MemoryStore) ListParameters(_ context.Context, owners []ParameterOwner) ([]domain.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Parameter{}
	seen := make(map[ParameterOwner]bool, len(owners))
	for _, o := range owners {
		if seen[o] {
			continue
		}
		seen[o] = true
		for _, p := range s.parameters {
			if p.OwnerKind == o.Kind && p.OwnerID == o.ID {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (s *MemoryStore) ListValueChanges(_ context.Context, refs []domain.ParameterRef) ([]domain.ParameterValueChangeAction, error) {
	want := make(map[string]bool, len(refs))
	for _, r := range refs {
		want[r.Key()] = true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.ParameterValueChangeAction{}
	for _, c := range s.valueChanges {
		if want[c.Parameter().Key()] {
			out = append(out, c)
		}
	}
	return out, nil
}

// Archive 在写锁内执行 gate 并设置标记
func (s *MemoryStore) Archive(_ context.Context, target domain.ArchiveTarget, gate ArchiveGate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records domain.ArchivalRecords
	switch target.Entity {
	case domain.ArchiveDevice, domain.ArchivePlatform:
		kind := domain.KindDevice
		if target.Entity == domain.ArchivePlatform {
			kind = domain.KindPlatform
		}
		key := domain.EquipmentRef{Kind: kind, ID: target.ID}.Key()
		e, ok := s.equipment[key]
		if !ok {
			return fmt.Errorf("%s %s: %w", target.Entity, target.ID, ErrNotFound)
		}
		records.Archived = e.Archived
		records.Mounts = s.filterMounts(func(m domain.MountAction) bool {
			if m.Kind == kind && m.EquipmentID == target.ID {
				return true
			}
			return kind == domain.KindPlatform && m.HasParent() && *m.ParentPlatformID == target.ID
		})
		if err := gate(records); err != nil {
			return err
		}
		e.Archived = true
		s.equipment[key] = e

	case domain.ArchiveConfiguration:
		c, ok := s.configurations[target.ID]
		if !ok {
			return fmt.Errorf("%s %s: %w", target.Entity, target.ID, ErrNotFound)
		}
		records.Archived = c.Archived
		records.Mounts = s.filterMounts(func(m domain.MountAction) bool {
			return m.ConfigurationID == target.ID
		})
		for _, l := range s.locations {
			if l.ConfigurationID == target.ID {
				records.Locations = append(records.Locations, l)
			}
		}
		if err := gate(records); err != nil {
			return err
		}
		c.Archived = true
		s.configurations[target.ID] = c

	default:
		return fmt.Errorf("unknown archive entity %q", target.Entity)
	}
	return nil
}
