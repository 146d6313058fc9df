// Package metrics defines and registers all custom Prometheus metrics for the
// ledger API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; the /metrics endpoint serves them next to the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledger"

// ── Ledger metrics ────────────────────────────────────────────────────────────

// LedgerWritesTotal counts successful writes to the ledger.
// Labels:
//   - entity: "person" or "transaction"
//   - op: "create", "update", "delete", "settle", "unsettle"
var LedgerWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_total",
		Help:      "Total number of successful ledger writes, by entity and operation.",
	},
	[]string{"entity", "op"},
)

// CascadeDeletesTotal counts person deletions with their transactions.
// Label:
//   - result: "completed" or "failed" (person kept)
var CascadeDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_deletes_total",
		Help:      "Total number of cascading person deletions, by result.",
	},
	[]string{"result"},
)

// CascadeDeletedTransactions observes how many transactions a completed
// cascading delete removed.
var CascadeDeletedTransactions = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cascade_deleted_transactions",
		Help:      "Number of transactions removed per completed cascading delete.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
	},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session changes delivered to observers.
// Label:
//   - event: "signed_in" or "signed_out"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session changes, by event.",
	},
	[]string{"event"},
)

// AuthFailuresTotal counts rejected credential operations.
// Label:
//   - reason: "invalid_credentials", "account_exists", "invalid_input", "error"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed sign-up and sign-in attempts, by reason.",
	},
	[]string{"reason"},
)

// SessionQueueDepth tracks pending session changes in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var SessionQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_queue_depth",
		Help:      "Current number of session changes pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
