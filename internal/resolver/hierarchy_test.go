package resolver

import (
	"testing"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nestedSnapshot(t *testing.T) Snapshot {
	return Snapshot{
		Configuration: &domain.Configuration{ID: "c1", Label: "station"},
		Mounts: []domain.MountAction{
			platformMount("pm1", "1", "c1", ts(t, "2022-05-18T12:00"), tsPtr(t, "2022-06-01")),
			withParent(platformMount("pm2", "2", "c1", ts(t, "2022-05-18T12:00"), tsPtr(t, "2022-06-01")), "1"),
			withParent(deviceMount("dm1", "1", "c1", ts(t, "2022-05-18T12:00"), tsPtr(t, "2022-06-01")), "2"),
		},
		Equipment: []domain.Equipment{platform("1"), platform("2"), device("1")},
	}
}

func TestResolveHierarchy_Nesting(t *testing.T) {
	forest, err := ResolveHierarchy(nestedSnapshot(t), ts(t, "2022-05-19"))
	require.NoError(t, err)
	require.Len(t, forest, 1)

	root := forest[0]
	assert.Equal(t, "pm1", root.Action.ID)
	assert.Equal(t, domain.KindPlatform, root.Entity.Kind)
	require.Len(t, root.Children, 1)

	mid := root.Children[0]
	assert.Equal(t, "pm2", mid.Action.ID)
	require.Len(t, mid.Children, 1)

	leaf := mid.Children[0]
	assert.Equal(t, "dm1", leaf.Action.ID)
	assert.Equal(t, domain.KindDevice, leaf.Entity.Kind)
	assert.Equal(t, "1", leaf.Entity.ID)
	assert.Empty(t, leaf.Children)
}

func TestResolveHierarchy_BoundariesInclusive(t *testing.T) {
	s := Snapshot{
		Configuration: &domain.Configuration{ID: "c1"},
		Mounts: []domain.MountAction{
			deviceMount("dm1", "1", "c1", ts(t, "2022-05-18T12:00"), tsPtr(t, "2022-05-18T12:00")),
		},
		Equipment: []domain.Equipment{device("1")},
	}

	forest, err := ResolveHierarchy(s, ts(t, "2022-05-18T12:00"))
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "dm1", forest[0].Action.ID)

	forest, err = ResolveHierarchy(s, ts(t, "2022-05-18T12:01"))
	require.NoError(t, err)
	assert.Empty(t, forest)
}

func TestResolveHierarchy_EndedMountNotInForest(t *testing.T) {
	forest, err := ResolveHierarchy(nestedSnapshot(t), ts(t, "2022-07-01"))
	require.NoError(t, err)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestResolveHierarchy_InactiveParentBecomesRoot(t *testing.T) {
	s := Snapshot{
		Configuration: &domain.Configuration{ID: "c1"},
		Mounts: []domain.MountAction{
			platformMount("pm1", "1", "c1", ts(t, "2022-01-01"), tsPtr(t, "2022-02-01")),
			withParent(deviceMount("dm1", "1", "c1", ts(t, "2022-01-01"), nil), "1"),
		},
		Equipment: []domain.Equipment{platform("1"), device("1")},
	}

	forest, err := ResolveHierarchy(s, ts(t, "2022-03-01"))
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "dm1", forest[0].Action.ID)
}

func TestResolveHierarchy_SameInstantNotDeduplicated(t *testing.T) {
	s := Snapshot{
		Configuration: &domain.Configuration{ID: "c1"},
		Mounts: []domain.MountAction{
			deviceMount("dm1", "1", "c1", ts(t, "2022-01-01"), tsPtr(t, "2022-02-01")),
			deviceMount("dm2", "1", "c1", ts(t, "2022-02-01"), nil),
		},
		Equipment: []domain.Equipment{device("1")},
	}

	forest, err := ResolveHierarchy(s, ts(t, "2022-02-01"))
	require.NoError(t, err)
	require.Len(t, forest, 2)
	assert.Equal(t, "dm1", forest[0].Action.ID)
	assert.Equal(t, "dm2", forest[1].Action.ID)
}

func TestResolveHierarchy_DeviceAndPlatformShareID(t *testing.T) {
	s := Snapshot{
		Configuration: &domain.Configuration{ID: "c1"},
		Mounts: []domain.MountAction{
			platformMount("7", "5", "c1", ts(t, "2022-01-01"), nil),
			withParent(deviceMount("7", "5", "c1", ts(t, "2022-01-01"), nil), "5"),
		},
		Equipment: []domain.Equipment{platform("5"), device("5")},
	}

	forest, err := ResolveHierarchy(s, ts(t, "2022-06-01"))
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, domain.KindPlatform, forest[0].Entity.Kind)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, domain.KindDevice, forest[0].Children[0].Entity.Kind)
}

func TestResolveHierarchy_ConfigurationNotFound(t *testing.T) {
	_, err := ResolveHierarchy(Snapshot{}, ts(t, "2022-01-01"))
	assert.ErrorIs(t, err, ErrConfigurationNotFound)
}

func TestResolveHierarchy_MissingEquipment(t *testing.T) {
	s := Snapshot{
		Configuration: &domain.Configuration{ID: "c1"},
		Mounts:        []domain.MountAction{deviceMount("dm1", "1", "c1", ts(t, "2022-01-01"), nil)},
	}
	_, err := ResolveHierarchy(s, ts(t, "2022-06-01"))
	assert.ErrorIs(t, err, ErrEquipmentNotFound)
}

func TestResolveHierarchy_Cycles(t *testing.T) {
	tests := []struct {
		name   string
		mounts []domain.MountAction
	}{
		{
			name: "self parent",
			mounts: []domain.MountAction{
				withParent(platformMount("pm1", "1", "c1", ts(t, "2022-01-01"), nil), "1"),
			},
		},
		{
			name: "two platforms",
			mounts: []domain.MountAction{
				withParent(platformMount("pm1", "1", "c1", ts(t, "2022-01-01"), nil), "2"),
				withParent(platformMount("pm2", "2", "c1", ts(t, "2022-01-01"), nil), "1"),
			},
		},
		{
			name: "cycle below a valid root",
			mounts: []domain.MountAction{
				platformMount("pm0", "3", "c1", ts(t, "2022-01-01"), nil),
				withParent(platformMount("pm1", "1", "c1", ts(t, "2022-01-01"), nil), "2"),
				withParent(platformMount("pm2", "2", "c1", ts(t, "2022-01-01"), nil), "1"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{
				Configuration: &domain.Configuration{ID: "c1"},
				Mounts:        tt.mounts,
				Equipment:     []domain.Equipment{platform("1"), platform("2"), platform("3")},
			}
			_, err := ResolveHierarchy(s, ts(t, "2022-06-01"))
			assert.ErrorIs(t, err, ErrCyclicHierarchy)
		})
	}
}

func TestWalk_DepthFirst(t *testing.T) {
	forest, err := ResolveHierarchy(nestedSnapshot(t), ts(t, "2022-05-19"))
	require.NoError(t, err)

	var visited []string
	var depths []int
	Walk(forest, func(n *Node, depth int) {
		visited = append(visited, n.Action.ID)
		depths = append(depths, depth)
	})
	assert.Equal(t, []string{"pm1", "pm2", "dm1"}, visited)
	assert.Equal(t, []int{0, 1, 2}, depths)
}
