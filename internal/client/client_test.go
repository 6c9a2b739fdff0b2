package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	httpapi "github.com/sensor-management-system/orchestration-sub007/internal/http"
	"github.com/sensor-management-system/orchestration-sub007/internal/repository"
	"github.com/sensor-management-system/orchestration-sub007/internal/resolver"
	"github.com/sensor-management-system/orchestration-sub007/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestClient(t *testing.T) *Client {
	store := repository.NewMemoryStore()
	store.AddConfiguration(domain.Configuration{ID: "c1", Label: "station"})
	store.AddConfiguration(domain.Configuration{ID: "c2", Label: "empty"})
	_, err := store.AddEquipment(domain.Equipment{ID: "1", Kind: domain.KindPlatform, ShortName: "mast"})
	require.NoError(t, err)
	_, err = store.AddEquipment(domain.Equipment{ID: "5", Kind: domain.KindDevice, ShortName: "logger"})
	require.NoError(t, err)

	end := at("2023-01-01T00:00:00Z")
	parent := "1"
	_, err = store.AddMountAction(domain.MountAction{ID: "pm1", Kind: domain.KindPlatform, EquipmentID: "1", ConfigurationID: "c1",
		BeginDate: at("2022-01-01T00:00:00Z")})
	require.NoError(t, err)
	_, err = store.AddMountAction(domain.MountAction{ID: "dm1", Kind: domain.KindDevice, EquipmentID: "5", ConfigurationID: "c1",
		ParentPlatformID: &parent, BeginDate: at("2022-02-01T00:00:00Z"), EndDate: &end})
	require.NoError(t, err)

	store.AddParameter(domain.Parameter{ID: "1", OwnerKind: domain.OwnerDevice, OwnerID: "5", Label: "gain"})
	store.AddValueChange(domain.ParameterValueChangeAction{ParameterKind: domain.OwnerDevice, ParameterID: "1",
		Date: at("2022-02-01T00:00:00Z"), Value: "2"})

	logger := zap.NewNop()
	h := httpapi.NewDeploymentHandler(
		service.NewAvailabilityService(store, store, logger),
		service.NewConfigurationService(store, store, store, store, logger),
		service.NewArchiveService(store, nil, resolver.FixedClock(at("2024-06-01T00:00:00Z")), logger),
		logger,
	)
	r := httpapi.NewRouter(logger)
	r.RegisterDeploymentRoutes(h)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, logger)
}

func TestClient_Availabilities(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	got, err := c.DeviceAvailabilities(ctx, []string{"5"}, at("2022-06-01T00:00:00Z"), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Available)
	assert.Equal(t, "dm1", got[0].Mount)
	require.NotNil(t, got[0].EndDate)
	assert.Equal(t, "2023-01-01T00:00:00Z", *got[0].EndDate)

	to := at("2024-01-01T00:00:00Z")
	got, err = c.DeviceAvailabilities(ctx, []string{"5"}, at("2023-01-01T00:00:00Z"), &to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Available)

	got, err = c.PlatformAvailabilities(ctx, []string{"1"}, at("2030-01-01T00:00:00Z"), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pm1", got[0].Mount)
}

func TestClient_ConfigurationQueries(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	forest, err := c.MountingActions(ctx, "c1", at("2022-06-01T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "pm1", forest[0].Action["id"])
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "dm1", forest[0].Children[0].Action["id"])

	doc, err := c.ParameterValues(ctx, "c1", at("2022-06-01T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, doc.Data, 1)
	assert.Equal(t, "device_parameter", doc.Data[0].Type)
	require.NotNil(t, doc.Data[0].Attributes.Value)
	assert.Equal(t, "2", *doc.Data[0].Attributes.Value)

	tps, err := c.MountingActionTimepoints(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, tps, 3)
	assert.Equal(t, "platform_mount", tps[0].Type)
	assert.Equal(t, "device_unmount", tps[2].Type)

	data, err := c.ExportMountingActions(ctx, "c1", at("2022-06-01T00:00:00Z"))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestClient_ErrorDocument(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.MountingActions(ctx, "missing", at("2022-06-01T00:00:00Z"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Len(t, apiErr.Errors, 1)
}

func TestClient_Archive(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	err := c.Archive(ctx, domain.ArchivePlatform, "1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)

	require.NoError(t, c.Archive(ctx, domain.ArchiveDevice, "5"))
	require.NoError(t, c.Archive(ctx, domain.ArchiveConfiguration, "c2"))

	assert.Error(t, c.Archive(ctx, domain.ArchiveEntity("site"), "1"))
}
