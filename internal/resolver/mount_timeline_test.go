package resolver

import (
	"testing"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountTimeline_FindOverlaps_KeepsInsertionOrder(t *testing.T) {
	// 后创建的记录 begin_date 更早，结果仍按创建顺序
	mounts := []domain.MountAction{
		deviceMount("m1", "1", "c1", ts(t, "2022-01-01"), tsPtr(t, "2025-01-01")),
		deviceMount("m2", "1", "c2", ts(t, "2020-01-01"), tsPtr(t, "2021-01-30")),
		deviceMount("m3", "2", "c1", ts(t, "2020-01-01"), nil),
	}
	timeline := NewMountTimeline(mounts)

	got := timeline.FindOverlaps(domain.EquipmentRef{Kind: domain.KindDevice, ID: "1"}, ts(t, "2021-01-01"), tsPtr(t, "2025-01-15"))
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
}

func TestMountTimeline_FindOverlaps_SeparatesKinds(t *testing.T) {
	timeline := NewMountTimeline([]domain.MountAction{
		platformMount("p1", "1", "c1", ts(t, "2022-01-01"), nil),
	})

	assert.Empty(t, timeline.FindOverlaps(domain.EquipmentRef{Kind: domain.KindDevice, ID: "1"}, ts(t, "2022-06-01"), nil))
	assert.Len(t, timeline.FindOverlaps(domain.EquipmentRef{Kind: domain.KindPlatform, ID: "1"}, ts(t, "2022-06-01"), nil), 1)
}

func TestMountTimeline_FindActiveAt(t *testing.T) {
	timeline := NewMountTimeline([]domain.MountAction{
		platformMount("p1", "10", "c1", ts(t, "2022-01-01"), tsPtr(t, "2022-12-31")),
		deviceMount("d1", "20", "c1", ts(t, "2022-03-01"), nil),
		deviceMount("d2", "21", "c1", ts(t, "2023-01-01"), nil),
		deviceMount("d3", "22", "c2", ts(t, "2022-01-01"), nil),
	})

	got := timeline.FindActiveAt("c1", ts(t, "2022-06-01"))
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "d1", got[1].ID)

	assert.Empty(t, timeline.FindActiveAt("unknown", ts(t, "2022-06-01")))
}

func TestMountTimeline_Timepoints(t *testing.T) {
	timeline := NewMountTimeline([]domain.MountAction{
		deviceMount("d1", "20", "c1", ts(t, "2022-03-01"), tsPtr(t, "2022-04-01")),
		platformMount("p1", "10", "c1", ts(t, "2022-01-01"), tsPtr(t, "2022-03-01")),
		deviceMount("d2", "21", "c2", ts(t, "2021-01-01"), nil),
	})

	got := timeline.Timepoints("c1")
	require.Len(t, got, 4)

	assert.Equal(t, PlatformMount, got[0].Type)
	assert.Equal(t, ts(t, "2022-01-01"), got[0].Timepoint)
	// 同一时刻：d1 先于 p1 被记录
	assert.Equal(t, DeviceMount, got[1].Type)
	assert.Equal(t, "d1", got[1].MountID)
	assert.Equal(t, PlatformUnmount, got[2].Type)
	assert.Equal(t, "p1", got[2].MountID)
	assert.Equal(t, DeviceUnmount, got[3].Type)

	assert.NotNil(t, timeline.Timepoints("empty"))
	assert.Empty(t, timeline.Timepoints("empty"))
}
