// Package metrics defines and registers all custom Prometheus metrics for the
// CareVillage admin API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carevillage_admin"

// ── Resource metrics ──────────────────────────────────────────────────────────

// ResourcesCreatedTotal counts records created through the API.
// Label:
//   - resource: "accounts", "counselors", "meetings", "payouts" or "interviews"
var ResourcesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resources_created_total",
		Help:      "Total number of records created, by resource.",
	},
	[]string{"resource"},
)

// StatusTransitionsTotal counts lifecycle transition requests.
// Labels:
//   - resource: "counselors", "meetings" or "payouts"
//   - to: the requested status
//   - result: "applied" or "rejected" (illegal edge)
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of status transition requests, by outcome.",
	},
	[]string{"resource", "to", "result"},
)

// LoginAttemptsTotal counts admin logins.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)

// ── Page cache metrics ────────────────────────────────────────────────────────

// PageCacheLookupsTotal counts list page cache lookups.
// Labels:
//   - resource: the listed resource
//   - result: "hit", "miss" or "error"
var PageCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_cache_lookups_total",
		Help:      "Total number of list page cache lookups, by result.",
	},
	[]string{"resource", "result"},
)

// ── Payout dispatcher metrics ─────────────────────────────────────────────────

// PayoutQueueDepth tracks the number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var PayoutQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "payout_queue_depth",
		Help:      "Current number of payout jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// PayoutJobDuration measures how long a single payout job takes.
// Label:
//   - result: "ok" or "error"
var PayoutJobDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payout_job_duration_seconds",
		Help:      "Duration of payout batch jobs from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
