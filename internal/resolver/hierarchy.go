package resolver

import (
	"fmt"
	"strings"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

// MaxHierarchyDepth 平台嵌套的最大深度
const MaxHierarchyDepth = 32

// Node 层级树节点
type Node struct {
	Action   domain.MountAction
	Entity   domain.Equipment
	Children []*Node
}

// ResolveHierarchy 构建配置在 at 时刻的安装层级（森林）
//
// 根节点：没有父平台，或父平台在 at 时刻没有生效的安装记录。
// 子节点按 parent_platform_id 挂到对应平台节点下，递归处理。
// 同一时刻开始/结束的多条记录各自保留，不去重。
func ResolveHierarchy(s Snapshot, at time.Time) ([]*Node, error) {
	if s.Configuration == nil {
		return nil, ErrConfigurationNotFound
	}

	active := NewMountTimeline(s.Mounts).FindActiveAt(s.Configuration.ID, at)

	activePlatforms := make(map[string]bool)
	for _, m := range active {
		if m.Kind == domain.KindPlatform {
			activePlatforms[m.EquipmentID] = true
		}
	}

	var roots []domain.MountAction
	children := make(map[string][]domain.MountAction)
	for _, m := range active {
		if m.HasParent() && activePlatforms[*m.ParentPlatformID] {
			children[*m.ParentPlatformID] = append(children[*m.ParentPlatformID], m)
			continue
		}
		roots = append(roots, m)
	}

	b := &hierarchyBuilder{
		children: children,
		entities: indexEquipment(s.Equipment),
		emitted:  make(map[string]bool, len(active)),
	}

	forest := make([]*Node, 0, len(roots))
	for _, root := range roots {
		node, err := b.build(root, make(map[string]bool), 0)
		if err != nil {
			return nil, err
		}
		forest = append(forest, node)
	}

	// 父链不能到达任何根节点的记录只可能处在环上
	if len(b.emitted) < len(active) {
		var unreachable []string
		for _, m := range active {
			if !b.emitted[mountKey(m)] {
				unreachable = append(unreachable, mountKey(m))
			}
		}
		return nil, fmt.Errorf("%w: unreachable mounts %s in configuration %s",
			ErrCyclicHierarchy, strings.Join(unreachable, ", "), s.Configuration.ID)
	}

	return forest, nil
}

type hierarchyBuilder struct {
	children map[string][]domain.MountAction // parent platform id -> mounts
	entities map[string]domain.Equipment
	emitted  map[string]bool
}

func (b *hierarchyBuilder) build(m domain.MountAction, path map[string]bool, depth int) (*Node, error) {
	if depth > MaxHierarchyDepth {
		return nil, fmt.Errorf("%w: depth exceeds %d at mount %s", ErrCyclicHierarchy, MaxHierarchyDepth, mountKey(m))
	}

	entity, ok := b.entities[m.Equipment().Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s (mount %s)", ErrEquipmentNotFound, m.Equipment().Key(), mountKey(m))
	}
	b.emitted[mountKey(m)] = true

	node := &Node{Action: m, Entity: entity, Children: []*Node{}}
	if m.Kind != domain.KindPlatform {
		return node, nil
	}

	if path[m.EquipmentID] {
		return nil, fmt.Errorf("%w: platform %s is its own ancestor", ErrCyclicHierarchy, m.EquipmentID)
	}
	path[m.EquipmentID] = true
	defer delete(path, m.EquipmentID)

	for _, c := range b.children[m.EquipmentID] {
		child, err := b.build(c, path, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func mountKey(m domain.MountAction) string {
	return m.TypeName() + ":" + m.ID
}

// Walk 深度优先遍历森林
func Walk(forest []*Node, fn func(n *Node, depth int)) {
	var visit func(nodes []*Node, depth int)
	visit = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(forest, 0)
}
