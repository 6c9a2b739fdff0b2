package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	httpapi "github.com/sensor-management-system/orchestration-sub007/internal/http"

	"go.uber.org/zap"
)

// APIError 服务端返回的 JSON:API 错误
type APIError struct {
	StatusCode int
	Errors     []httpapi.ErrorObject
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("deployment api: status %d", e.StatusCode)
	}
	details := make([]string, 0, len(e.Errors))
	for _, o := range e.Errors {
		details = append(details, o.Detail)
	}
	return fmt.Sprintf("deployment api: status %d: %s", e.StatusCode, strings.Join(details, "; "))
}

// Client 部署查询 API 客户端
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient 创建客户端
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

func (c *Client) do(req *resty.Request, method, url string) (*resty.Response, error) {
	var apiErr httpapi.ErrorDocument
	resp, err := req.SetError(&apiErr).Execute(method, url)
	if err != nil {
		c.logger.Error("Deployment API call failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to call deployment api: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Errors: apiErr.Errors}
	}
	return resp, nil
}

// DeviceAvailabilities 设备可用性
func (c *Client) DeviceAvailabilities(ctx context.Context, ids []string, from time.Time, to *time.Time) ([]httpapi.AvailabilityJSON, error) {
	return c.availabilities(ctx, "/controller/device-availabilities", ids, from, to)
}

// PlatformAvailabilities 平台可用性
func (c *Client) PlatformAvailabilities(ctx context.Context, ids []string, from time.Time, to *time.Time) ([]httpapi.AvailabilityJSON, error) {
	return c.availabilities(ctx, "/controller/platform-availabilities", ids, from, to)
}

func (c *Client) availabilities(ctx context.Context, url string, ids []string, from time.Time, to *time.Time) ([]httpapi.AvailabilityJSON, error) {
	var out []httpapi.AvailabilityJSON
	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetQueryParam("from", from.UTC().Format(time.RFC3339Nano)).
		SetResult(&out)
	if to != nil {
		req.SetQueryParam("to", to.UTC().Format(time.RFC3339Nano))
	}
	if _, err := c.do(req, resty.MethodGet, url); err != nil {
		return nil, err
	}
	return out, nil
}

// MountingActions 某一时刻的安装层级
func (c *Client) MountingActions(ctx context.Context, configurationID string, timepoint time.Time) ([]httpapi.NodeJSON, error) {
	var out []httpapi.NodeJSON
	req := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", configurationID).
		SetQueryParam("timepoint", timepoint.UTC().Format(time.RFC3339Nano)).
		SetResult(&out)
	if _, err := c.do(req, resty.MethodGet, "/controller/configurations/{id}/mounting-actions"); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportMountingActions 层级 xlsx 导出
func (c *Client) ExportMountingActions(ctx context.Context, configurationID string, timepoint time.Time) ([]byte, error) {
	req := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", configurationID).
		SetQueryParam("timepoint", timepoint.UTC().Format(time.RFC3339Nano))
	resp, err := c.do(req, resty.MethodGet, "/controller/configurations/{id}/mounting-actions.xlsx")
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// ParameterValues 某一时刻的参数值
func (c *Client) ParameterValues(ctx context.Context, configurationID string, timepoint time.Time) (*httpapi.ParameterValuesDocument, error) {
	var out httpapi.ParameterValuesDocument
	req := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", configurationID).
		SetQueryParam("timepoint", timepoint.UTC().Format(time.RFC3339Nano)).
		SetResult(&out)
	if _, err := c.do(req, resty.MethodGet, "/controller/configurations/{id}/parameter-values"); err != nil {
		return nil, err
	}
	return &out, nil
}

// MountingActionTimepoints 安装/卸载时刻列表
func (c *Client) MountingActionTimepoints(ctx context.Context, configurationID string) ([]httpapi.TimepointJSON, error) {
	var out []httpapi.TimepointJSON
	req := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", configurationID).
		SetResult(&out)
	if _, err := c.do(req, resty.MethodGet, "/controller/configurations/{id}/mounting-action-timepoints"); err != nil {
		return nil, err
	}
	return out, nil
}

var archivePaths = map[domain.ArchiveEntity]string{
	domain.ArchiveDevice:        "/controller/devices/{id}/archive",
	domain.ArchivePlatform:      "/controller/platforms/{id}/archive",
	domain.ArchiveConfiguration: "/controller/configurations/{id}/archive",
}

// Archive 归档设备、平台或配置
func (c *Client) Archive(ctx context.Context, entity domain.ArchiveEntity, id string) error {
	path, ok := archivePaths[entity]
	if !ok {
		return fmt.Errorf("unknown archive entity %q", entity)
	}
	req := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", id)
	_, err := c.do(req, resty.MethodPost, path)
	return err
}
