package service

import (
	"errors"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/observability"
	"github.com/sensor-management-system/orchestration-sub007/internal/repository"
	"github.com/sensor-management-system/orchestration-sub007/internal/resolver"
)

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, resolver.ErrConfigurationNotFound), errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, resolver.ErrAlreadyArchived):
		return "conflict"
	}
	if _, ok := resolver.IsPreconditionViolation(err); ok {
		return "conflict"
	}
	return "error"
}

// observe 记录查询次数与耗时
func observe(query string, start time.Time, err error) {
	observability.Queries.WithLabelValues(query, outcome(err)).Inc()
	observability.ResolutionDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
