package resolver

import (
	"testing"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valueChange(t *testing.T, id string, kind domain.ParameterOwnerKind, parameterID, date, value string) domain.ParameterValueChangeAction {
	return domain.ParameterValueChangeAction{
		ID: id, ParameterKind: kind, ParameterID: parameterID, Date: ts(t, date), Value: value,
	}
}

func TestResolveValue_Monotone(t *testing.T) {
	log := []domain.ParameterValueChangeAction{
		valueChange(t, "v2", domain.OwnerConfiguration, "p1", "2023-01-01", "456"),
		valueChange(t, "v1", domain.OwnerConfiguration, "p1", "2022-01-01", "123"),
	}

	tests := []struct {
		at   string
		want string
	}{
		{"2021-12-31", ""},
		{"2022-01-01", "123"},
		{"2022-06-15", "123"},
		{"2022-12-31T23:59:59.999999", "123"},
		{"2023-01-01", "456"},
		{"2030-01-01", "456"},
	}
	for _, tt := range tests {
		t.Run(tt.at, func(t *testing.T) {
			got := ResolveValue(log, ts(t, tt.at))
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestResolveValue_TieTakesLastAppended(t *testing.T) {
	log := []domain.ParameterValueChangeAction{
		valueChange(t, "v1", domain.OwnerDevice, "p1", "2022-01-01", "first"),
		valueChange(t, "v2", domain.OwnerDevice, "p1", "2022-01-01", "second"),
	}
	got := ResolveValue(log, ts(t, "2022-02-01"))
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.ID)
}

func parameterSnapshot(t *testing.T) Snapshot {
	return Snapshot{
		Configuration: &domain.Configuration{ID: "c1"},
		Mounts: []domain.MountAction{
			deviceMount("dm1", "d1", "c1", ts(t, "2022-01-01"), tsPtr(t, "2022-12-31")),
			platformMount("pm1", "x1", "c1", ts(t, "2022-06-01"), nil),
			deviceMount("dm2", "d2", "c2", ts(t, "2022-01-01"), nil),
		},
		Parameters: []domain.Parameter{
			{ID: "1", OwnerKind: domain.OwnerDevice, OwnerID: "d1", Label: "gain"},
			{ID: "1", OwnerKind: domain.OwnerConfiguration, OwnerID: "c1", Label: "interval"},
			{ID: "2", OwnerKind: domain.OwnerPlatform, OwnerID: "x1", Label: "height"},
			{ID: "3", OwnerKind: domain.OwnerDevice, OwnerID: "d2", Label: "offset"},
			{ID: "4", OwnerKind: domain.OwnerConfiguration, OwnerID: "c2", Label: "other"},
		},
		ValueChanges: []domain.ParameterValueChangeAction{
			valueChange(t, "v1", domain.OwnerConfiguration, "1", "2022-01-01", "123"),
			valueChange(t, "v2", domain.OwnerConfiguration, "1", "2023-01-01", "456"),
			valueChange(t, "v3", domain.OwnerDevice, "1", "2022-02-01", "3.5"),
		},
	}
}

func TestResolveConfigurationParameters_MountScopedVisibility(t *testing.T) {
	got, err := ResolveConfigurationParameters(parameterSnapshot(t), ts(t, "2022-03-01"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "configuration_parameter", got[0].TypeName())
	require.NotNil(t, got[0].Value)
	assert.Equal(t, "123", *got[0].Value)

	assert.Equal(t, "device_parameter", got[1].TypeName())
	assert.Equal(t, "d1", got[1].Parameter.OwnerID)
	require.NotNil(t, got[1].Value)
	assert.Equal(t, "3.5", *got[1].Value)
}

func TestResolveConfigurationParameters_Order(t *testing.T) {
	got, err := ResolveConfigurationParameters(parameterSnapshot(t), ts(t, "2022-07-01"))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "configuration_parameter", got[0].TypeName())
	assert.Equal(t, "platform_parameter", got[1].TypeName())
	assert.Nil(t, got[1].Value)
	assert.Equal(t, "device_parameter", got[2].TypeName())
}

func TestResolveConfigurationParameters_AfterUnmount(t *testing.T) {
	got, err := ResolveConfigurationParameters(parameterSnapshot(t), ts(t, "2023-02-01"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "456", *got[0].Value)
	assert.Equal(t, "platform_parameter", got[1].TypeName())
}

func TestResolveConfigurationParameters_ConfigurationNotFound(t *testing.T) {
	_, err := ResolveConfigurationParameters(Snapshot{}, ts(t, "2022-01-01"))
	assert.ErrorIs(t, err, ErrConfigurationNotFound)
}
