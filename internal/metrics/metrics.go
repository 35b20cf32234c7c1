// Package metrics defines and registers all custom Prometheus metrics of the
// CRM. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Storage metrics ───────────────────────────────────────────────────────────

// CollectionWritesTotal counts full-collection rewrites.
// Labels:
//   - slot: storage slot name (e.g. "crm_quotes")
//   - op: the operation that caused the write ("add", "update", "delete", "repair")
var CollectionWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collection_writes_total",
		Help:      "Total number of collection rewrites, by slot and operation.",
	},
	[]string{"slot", "op"},
)

// StorageDegradedTotal counts reads that were served as an empty collection
// because the slot could not be read or parsed.
// Labels:
//   - slot: storage slot name
//   - reason: "unavailable", "backend_error" or "parse_error"
var StorageDegradedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_degraded_total",
		Help:      "Total number of reads masked as empty because of storage or parse failures.",
	},
	[]string{"slot", "reason"},
)

// RecordsRepairedTotal counts identifiers reassigned by the repair routine.
var RecordsRepairedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_repaired_total",
		Help:      "Total number of records that received a fresh identifier during repair.",
	},
	[]string{"slot"},
)

// SerializerQueueDepth tracks jobs waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var SerializerQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "serializer_queue_depth",
		Help:      "Current number of collection mutations pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Quote metrics ─────────────────────────────────────────────────────────────

// QuotesSavedTotal counts quotes written by the compose flows.
// Label:
//   - flow: "create", "update" or "duplicate"
var QuotesSavedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_saved_total",
		Help:      "Total number of quotes saved, by flow.",
	},
	[]string{"flow"},
)

// QuoteExportsTotal counts export attempts.
// Label:
//   - result: "ok", "quote_not_found", "client_not_found" or "error"
var QuoteExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quote_exports_total",
		Help:      "Total number of quote document exports, by result.",
	},
	[]string{"result"},
)

// QuoteExportDuration measures render plus upload time of one export.
var QuoteExportDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quote_export_duration_seconds",
		Help:      "Duration of quote document rendering and storage.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Intake metrics ────────────────────────────────────────────────────────────

// IntakeSubmissionsTotal counts public form submissions.
// Label:
//   - result: "created", "replayed", "in_progress" or "error"
var IntakeSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intake_submissions_total",
		Help:      "Total number of public intake submissions, by result.",
	},
	[]string{"result"},
)
