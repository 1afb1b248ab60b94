// Package metrics defines the custom Prometheus metrics of the marketplace.
// HTTP request metrics come from the echoprometheus middleware; the
// collectors here count business outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workerhub"

// ── Account metrics ───────────────────────────────────────────────────────────

// SignupsTotal counts signup attempts.
// Labels:
//   - role: "BUILDER", "WORKER" or "unknown"
//   - result: "ok", "exists", "invalid", "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "unknown_user", "bad_password", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Listing metrics ───────────────────────────────────────────────────────────

// ListingsCreatedTotal counts newly posted jobs.
// Label:
//   - work_type: e.g. "Masonry", "Plumbing"
var ListingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created, by work type.",
	},
	[]string{"work_type"},
)

// ── Application metrics ───────────────────────────────────────────────────────

// ApplicationActionsTotal counts apply/accept/reject attempts.
// Labels:
//   - action: "apply", "accept", "reject"
//   - result: "ok", "already_applied", "limit_reached", "closed", "invalid_transition",
//     "not_found", "forbidden", "conflict", "error"
var ApplicationActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_actions_total",
		Help:      "Total number of application lifecycle actions, by action and result.",
	},
	[]string{"action", "result"},
)

// Collectors returns the business collectors so a private registry can
// expose them next to the HTTP metrics.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{SignupsTotal, LoginsTotal, ListingsCreatedTotal, ApplicationActionsTotal}
}
