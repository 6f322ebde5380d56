// Package metrics defines Prometheus metrics for the correspondence core.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "corecrm_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corecrm_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corecrm_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	TasksRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "corecrm_background_tasks_running",
			Help: "Background tasks currently executing",
		},
	)

	TasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corecrm_background_tasks_total",
			Help: "Background task completions by outcome",
		},
		[]string{"task", "outcome"},
	)

	AuditWritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "corecrm_audit_writes_total",
			Help: "Audit log entries written",
		},
	)

	AnalysisPersistsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corecrm_analysis_persists_total",
			Help: "Message analyses merged into storage, by outcome",
		},
		[]string{"outcome"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "corecrm_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		TasksRunning, TasksTotal,
		AuditWritesTotal, AnalysisPersistsTotal,
		WSConnections,
	)
}
