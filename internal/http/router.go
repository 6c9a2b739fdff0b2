package httpapi

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 /metrics 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterHealthRoutes 存活检查与 Prometheus 指标
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.HandleHandler("/metrics", promhttp.Handler())
}

// RegisterDeploymentRoutes 注册部署查询与归档路由
func (r *Router) RegisterDeploymentRoutes(h *DeploymentHandler) {
	r.Handle("/controller/device-availabilities", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		h.DeviceAvailabilities(w, req)
	})
	r.Handle("/controller/platform-availabilities", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		h.PlatformAvailabilities(w, req)
	})

	// /controller/configurations/{id}/{action}
	r.Handle("/controller/configurations/", func(w http.ResponseWriter, req *http.Request) {
		id, action, ok := splitResourcePath(req.URL.Path, "/controller/configurations/")
		if !ok {
			writeRouteNotFound(w)
			return
		}
		switch {
		case action == "mounting-actions" && req.Method == http.MethodGet:
			h.MountingActions(w, req, id)
		case action == "mounting-actions.xlsx" && req.Method == http.MethodGet:
			h.MountingActionsExport(w, req, id)
		case action == "parameter-values" && req.Method == http.MethodGet:
			h.ParameterValues(w, req, id)
		case action == "mounting-action-timepoints" && req.Method == http.MethodGet:
			h.MountingActionTimepoints(w, req, id)
		case action == "archive" && req.Method == http.MethodPost:
			h.ArchiveConfiguration(w, req, id)
		case action == "mounting-actions", action == "mounting-actions.xlsx", action == "parameter-values",
			action == "mounting-action-timepoints", action == "archive":
			writeMethodNotAllowed(w)
		default:
			writeRouteNotFound(w)
		}
	})

	r.Handle("/controller/devices/", func(w http.ResponseWriter, req *http.Request) {
		id, action, ok := splitResourcePath(req.URL.Path, "/controller/devices/")
		if !ok || action != "archive" {
			writeRouteNotFound(w)
			return
		}
		if req.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		h.ArchiveDevice(w, req, id)
	})

	r.Handle("/controller/platforms/", func(w http.ResponseWriter, req *http.Request) {
		id, action, ok := splitResourcePath(req.URL.Path, "/controller/platforms/")
		if !ok || action != "archive" {
			writeRouteNotFound(w)
			return
		}
		if req.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		h.ArchivePlatform(w, req, id)
	})
}

// splitResourcePath 解析 prefix + "{id}/{action}"
func splitResourcePath(path, prefix string) (id, action string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
