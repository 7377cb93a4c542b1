// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medibot_responses_total",
			Help: "Responses produced, by category",
		},
		[]string{"category"},
	)

	EmergencySeverity = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medibot_emergency_severity_total",
			Help: "Emergency responses, by assessed severity",
		},
		[]string{"severity"},
	)

	SymptomMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medibot_symptom_matches_total",
			Help: "Symptom matches, by match method",
		},
		[]string{"method"},
	)

	KnowledgeReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medibot_knowledge_reloads_total",
			Help: "Knowledge snapshot builds, by result",
		},
		[]string{"result"},
	)

	KnowledgeFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medibot_knowledge_fallbacks_total",
			Help: "Tables replaced by built-in defaults, by table and error code",
		},
		[]string{"table", "error_code"},
	)

	KnowledgeRecordsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medibot_knowledge_records_rejected_total",
			Help: "Knowledge entries dropped or repaired during sanitizing",
		},
		[]string{"table", "action"},
	)

	KnowledgeEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "medibot_knowledge_entries",
			Help: "Entries in the current knowledge snapshot",
		},
		[]string{"table"},
	)
)
