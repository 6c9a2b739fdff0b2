package service

import (
	"testing"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/sensor-management-system/orchestration-sub007/internal/repository"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return v
}

func atPtr(s string) *time.Time {
	v := at(s)
	return &v
}

// seedStation platform 1 > platform 2 > device 1，配置 c1
func seedStation(t *testing.T) *repository.MemoryStore {
	s := repository.NewMemoryStore()
	s.AddConfiguration(domain.Configuration{ID: "c1", Label: "station"})

	for _, e := range []domain.Equipment{
		{ID: "1", Kind: domain.KindPlatform, ShortName: "mast"},
		{ID: "2", Kind: domain.KindPlatform, ShortName: "boom"},
		{ID: "1", Kind: domain.KindDevice, ShortName: "anemometer"},
		{ID: "2", Kind: domain.KindDevice, ShortName: "private logger", IsPrivate: true},
		{ID: "3", Kind: domain.KindDevice, ShortName: "spare"},
	} {
		_, err := s.AddEquipment(e)
		require.NoError(t, err)
	}

	one, two := "1", "2"
	for _, m := range []domain.MountAction{
		{ID: "pm1", Kind: domain.KindPlatform, EquipmentID: "1", ConfigurationID: "c1",
			BeginDate: at("2022-05-18T12:00:00Z"), EndDate: atPtr("2022-06-01T00:00:00Z")},
		{ID: "pm2", Kind: domain.KindPlatform, EquipmentID: "2", ConfigurationID: "c1", ParentPlatformID: &one,
			BeginDate: at("2022-05-18T12:00:00Z"), EndDate: atPtr("2022-06-01T00:00:00Z")},
		{ID: "dm1", Kind: domain.KindDevice, EquipmentID: "1", ConfigurationID: "c1", ParentPlatformID: &two,
			BeginDate: at("2022-05-18T12:00:00Z"), EndDate: atPtr("2022-06-01T00:00:00Z")},
		{ID: "dm2", Kind: domain.KindDevice, EquipmentID: "2", ConfigurationID: "c1",
			BeginDate: at("2022-05-01T00:00:00Z")},
	} {
		_, err := s.AddMountAction(m)
		require.NoError(t, err)
	}
	return s
}
