package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Queries counts resolution queries by query name and outcome.
	Queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deployment_queries_total",
		Help: "Total number of deployment resolution queries",
	}, []string{"query", "outcome"}) // outcome: ok, not_found, conflict, bad_request, error

	// ArchivalRejections counts archive requests refused by a precondition.
	ArchivalRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deployment_archival_rejections_total",
		Help: "Archive requests rejected by an archival precondition",
	}, []string{"entity", "rule"})

	// ResolutionDuration tracks snapshot fetch plus engine time per query.
	ResolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deployment_resolution_duration_seconds",
		Help:    "Duration of deployment queries including record fetch",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	// SnapshotCacheLookups counts mount snapshot cache lookups.
	SnapshotCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deployment_snapshot_cache_hits_total",
		Help: "Mount snapshot cache lookups by result",
	}, []string{"result"}) // result: hit, miss, error
)

// Query names
const (
	QueryDeviceAvailability   = "device_availability"
	QueryPlatformAvailability = "platform_availability"
	QueryHierarchy            = "hierarchy"
	QueryParameterValues      = "parameter_values"
	QueryTimepoints           = "timepoints"
	QueryArchive              = "archive"
)
