package resolver

import (
	"testing"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	for _, layout := range []string{"2006-01-02T15:04:05.999999", "2006-01-02T15:04", "2006-01-02"} {
		if v, err := time.Parse(layout, s); err == nil {
			return v
		}
	}
	t.Fatalf("bad timestamp %q", s)
	return time.Time{}
}

func tsPtr(t *testing.T, s string) *time.Time {
	v := ts(t, s)
	return &v
}

func strPtr(s string) *string { return &s }

func deviceMount(id, deviceID, configurationID string, begin time.Time, end *time.Time) domain.MountAction {
	return domain.MountAction{
		ID: id, Kind: domain.KindDevice, EquipmentID: deviceID,
		ConfigurationID: configurationID, BeginDate: begin, EndDate: end,
	}
}

func platformMount(id, platformID, configurationID string, begin time.Time, end *time.Time) domain.MountAction {
	return domain.MountAction{
		ID: id, Kind: domain.KindPlatform, EquipmentID: platformID,
		ConfigurationID: configurationID, BeginDate: begin, EndDate: end,
	}
}

func withParent(m domain.MountAction, platformID string) domain.MountAction {
	m.ParentPlatformID = strPtr(platformID)
	return m
}

func device(id string) domain.Equipment {
	return domain.Equipment{ID: id, Kind: domain.KindDevice, ShortName: "device " + id}
}

func platform(id string) domain.Equipment {
	return domain.Equipment{ID: id, Kind: domain.KindPlatform, ShortName: "platform " + id}
}
