// Package metrics defines and registers all custom Prometheus metrics for the
// church administration API. It is the single source of truth for metric
// names, labels, and help strings. Metrics register with the default registry
// at package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "churchadmin"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthDecisionsTotal counts guard decisions on protected routes.
// Label:
//   - result: "allowed", "missing_credential", "invalid_credential", "denied"
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authorization guard decisions, by result.",
	},
	[]string{"result"},
)

// ── Account management metrics ────────────────────────────────────────────────

// AccountOperationsTotal counts completed account-management mutations.
// Labels:
//   - operation: "create", "change_password", "delete"
//   - result: currently always "ok"; rejected requests never reach a mutation
//     and surface through AuthDecisionsTotal and the error handler instead
var AccountOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_operations_total",
		Help:      "Total number of account-management operations completed.",
	},
	[]string{"operation", "result"},
)

// AccountOrphansTotal counts accounts left without a role record because the
// role-store write failed after the identity provider had already created the
// account. Each increment is a pending manual reconciliation.
var AccountOrphansTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_orphans_total",
		Help:      "Total number of accounts created without a role record (reconciliation needed).",
	},
)
