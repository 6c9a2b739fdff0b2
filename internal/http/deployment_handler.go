package httpapi

import (
	"fmt"
	"net/http"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/sensor-management-system/orchestration-sub007/internal/observability"
	"github.com/sensor-management-system/orchestration-sub007/internal/service"

	"go.uber.org/zap"
)

// DeploymentHandler 部署查询与归档 Handler
type DeploymentHandler struct {
	availabilityService  service.AvailabilityService
	configurationService service.ConfigurationService
	archiveService       service.ArchiveService
	logger               *zap.Logger
}

// NewDeploymentHandler 创建部署 Handler
func NewDeploymentHandler(
	availabilityService service.AvailabilityService,
	configurationService service.ConfigurationService,
	archiveService service.ArchiveService,
	logger *zap.Logger,
) *DeploymentHandler {
	return &DeploymentHandler{
		availabilityService:  availabilityService,
		configurationService: configurationService,
		archiveService:       archiveService,
		logger:               logger,
	}
}

// badRequest 参数错误不会进入 service，这里单独计数
func (h *DeploymentHandler) badRequest(w http.ResponseWriter, query string, err error) {
	observability.Queries.WithLabelValues(query, "bad_request").Inc()
	writeError(w, h.logger, err)
}

// DeviceAvailabilities GET /controller/device-availabilities
func (h *DeploymentHandler) DeviceAvailabilities(w http.ResponseWriter, r *http.Request) {
	h.availabilities(w, r, domain.KindDevice, observability.QueryDeviceAvailability)
}

// PlatformAvailabilities GET /controller/platform-availabilities
func (h *DeploymentHandler) PlatformAvailabilities(w http.ResponseWriter, r *http.Request) {
	h.availabilities(w, r, domain.KindPlatform, observability.QueryPlatformAvailability)
}

func (h *DeploymentHandler) availabilities(w http.ResponseWriter, r *http.Request, kind domain.EquipmentKind, query string) {
	ctx := r.Context()

	// 1. 参数解析
	from, err := requiredTime(r, "from")
	if err != nil {
		h.badRequest(w, query, err)
		return
	}
	to, err := optionalTime(r, "to")
	if err != nil {
		h.badRequest(w, query, err)
		return
	}
	if !r.URL.Query().Has("ids") {
		h.badRequest(w, query, &ParameterError{Parameter: "ids", Err: ErrMissingParameter})
		return
	}

	// 2. 调用 Service
	resp, err := h.availabilityService.CheckAvailability(ctx, service.AvailabilityRequest{
		Kind: kind,
		IDs:  parseIDList(r.URL.Query().Get("ids")),
		From: from,
		To:   to,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	// 3. 返回结果
	writeJSON(w, http.StatusOK, toAvailabilityJSON(resp.Items))
}

// MountingActions GET /controller/configurations/{id}/mounting-actions
func (h *DeploymentHandler) MountingActions(w http.ResponseWriter, r *http.Request, configurationID string) {
	timepoint, err := requiredTime(r, "timepoint")
	if err != nil {
		h.badRequest(w, observability.QueryHierarchy, err)
		return
	}

	resp, err := h.configurationService.GetHierarchy(r.Context(), service.HierarchyRequest{
		ConfigurationID: configurationID,
		Timepoint:       timepoint,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toNodeJSON(resp.Forest))
}

// MountingActionsExport GET /controller/configurations/{id}/mounting-actions.xlsx
func (h *DeploymentHandler) MountingActionsExport(w http.ResponseWriter, r *http.Request, configurationID string) {
	timepoint, err := requiredTime(r, "timepoint")
	if err != nil {
		h.badRequest(w, observability.QueryHierarchy, err)
		return
	}

	resp, err := h.configurationService.GetHierarchy(r.Context(), service.HierarchyRequest{
		ConfigurationID: configurationID,
		Timepoint:       timepoint,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	data, err := GenerateHierarchyExport(resp.Configuration, resp.Forest)
	if err != nil {
		h.logger.Error("GenerateHierarchyExport failed",
			zap.String("configuration_id", configurationID),
			zap.Error(err),
		)
		writeError(w, h.logger, err)
		return
	}

	filename := fmt.Sprintf("configuration-%s-%s.xlsx", configurationID, timepoint.Format("20060102T150405Z"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ParameterValues GET /controller/configurations/{id}/parameter-values
func (h *DeploymentHandler) ParameterValues(w http.ResponseWriter, r *http.Request, configurationID string) {
	timepoint, err := requiredTime(r, "timepoint")
	if err != nil {
		h.badRequest(w, observability.QueryParameterValues, err)
		return
	}

	resp, err := h.configurationService.GetParameterValues(r.Context(), service.ParameterValuesRequest{
		ConfigurationID: configurationID,
		Timepoint:       timepoint,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSONAPI(w, http.StatusOK, toParameterValuesDocument(resp.Items))
}

// MountingActionTimepoints GET /controller/configurations/{id}/mounting-action-timepoints
func (h *DeploymentHandler) MountingActionTimepoints(w http.ResponseWriter, r *http.Request, configurationID string) {
	resp, err := h.configurationService.GetTimepoints(r.Context(), service.TimepointsRequest{ConfigurationID: configurationID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimepointsJSON(resp.Items))
}

// ArchiveDevice POST /controller/devices/{id}/archive
func (h *DeploymentHandler) ArchiveDevice(w http.ResponseWriter, r *http.Request, id string) {
	h.archive(w, r, domain.ArchiveDevice, id)
}

// ArchivePlatform POST /controller/platforms/{id}/archive
func (h *DeploymentHandler) ArchivePlatform(w http.ResponseWriter, r *http.Request, id string) {
	h.archive(w, r, domain.ArchivePlatform, id)
}

// ArchiveConfiguration POST /controller/configurations/{id}/archive
func (h *DeploymentHandler) ArchiveConfiguration(w http.ResponseWriter, r *http.Request, id string) {
	h.archive(w, r, domain.ArchiveConfiguration, id)
}

func (h *DeploymentHandler) archive(w http.ResponseWriter, r *http.Request, entity domain.ArchiveEntity, id string) {
	err := h.archiveService.Archive(r.Context(), service.ArchiveRequest{Entity: entity, ID: id})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
