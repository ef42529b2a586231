// Package metrics defines the Prometheus metrics of the storefront API. It is
// the single source of truth for metric names, labels and help strings.
//
// Metrics register with the default registry on import and are served by
// promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts user-initiated session operations.
// Labels:
//   - operation: "register", "provision", "login", "logout", "refresh"
//   - result: "ok" or the failure class (e.g. "invalid_credentials", "remote_unavailable")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// SessionHydrationsTotal counts startup hydrations by the state they settled in.
var SessionHydrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_hydrations_total",
		Help:      "Total number of session hydrations, by resulting state (active/absent).",
	},
	[]string{"state"},
)

// LogoutWarningsTotal counts logouts whose remote invalidation failed. The
// local session was cleared regardless.
var LogoutWarningsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logout_warnings_total",
		Help:      "Total number of logouts that could not invalidate the remote session.",
	},
)

// ── Profile gate metrics ──────────────────────────────────────────────────────

// GateRejectionsTotal counts profile submissions rejected locally.
// Label:
//   - reason: "verification_required" or "password_mismatch"
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_gate_rejections_total",
		Help:      "Total number of profile submissions rejected before any remote call.",
	},
	[]string{"reason"},
)

// GateVerificationsTotal counts credential re-verifications by result (passed/failed).
var GateVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_gate_verifications_total",
		Help:      "Total number of current-password verifications, by result.",
	},
	[]string{"result"},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartMutationsTotal counts cart writes.
// Labels:
//   - operation: "add", "update_quantity", "remove", "clear"
//   - result: "ok" or "error"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests by method, route template and status code.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status code.",
	},
	[]string{"method", "route", "code"},
)

// HTTPRequestDuration measures request latency by method and route template.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method", "route"},
)
