package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sensor-management-system/orchestration-sub007/internal/repository"
	"github.com/sensor-management-system/orchestration-sub007/internal/resolver"

	"go.uber.org/zap"
)

var (
	// ErrMissingParameter 缺少必填的查询参数
	ErrMissingParameter = errors.New("missing required query parameter")

	// ErrMalformedTimestamp 时间参数无法解析
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// ParameterError 查询参数错误，指明出错的参数名
type ParameterError struct {
	Parameter string
	Value     string
	Err       error
}

func (e *ParameterError) Error() string {
	if errors.Is(e.Err, ErrMissingParameter) {
		return fmt.Sprintf("%s: %s", e.Err, e.Parameter)
	}
	return fmt.Sprintf("%s for %s: %q", e.Err, e.Parameter, e.Value)
}

func (e *ParameterError) Unwrap() error { return e.Err }

// ErrorDocument JSON:API 错误文档
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

type ErrorObject struct {
	Status string       `json:"status"`
	Title  string       `json:"title"`
	Detail string       `json:"detail"`
	Source *ErrorSource `json:"source,omitempty"`
}

type ErrorSource struct {
	Parameter string `json:"parameter"`
}

func writeErrorDocument(w http.ResponseWriter, status int, detail string, source *ErrorSource) {
	writeJSONAPI(w, status, ErrorDocument{Errors: []ErrorObject{{
		Status: strconv.Itoa(status),
		Title:  http.StatusText(status),
		Detail: detail,
		Source: source,
	}}})
}

// writeError 错误到 HTTP 状态码的映射
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var pe *ParameterError
	if errors.As(err, &pe) {
		writeErrorDocument(w, http.StatusBadRequest, pe.Error(), &ErrorSource{Parameter: pe.Parameter})
		return
	}
	if v, ok := resolver.IsPreconditionViolation(err); ok {
		writeErrorDocument(w, http.StatusConflict, v.Error(), nil)
		return
	}

	switch {
	case errors.Is(err, resolver.ErrConfigurationNotFound), errors.Is(err, repository.ErrNotFound):
		writeErrorDocument(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, resolver.ErrAlreadyArchived):
		writeErrorDocument(w, http.StatusConflict, err.Error(), nil)
	default:
		logger.Error("Request failed", zap.Error(err))
		writeErrorDocument(w, http.StatusInternalServerError, "internal error while resolving deployment data", nil)
	}
}

func writeRouteNotFound(w http.ResponseWriter) {
	writeErrorDocument(w, http.StatusNotFound, "route not found", nil)
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeErrorDocument(w, http.StatusMethodNotAllowed, "method not allowed", nil)
}
