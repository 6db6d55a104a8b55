// Package metrics defines and registers all custom Prometheus metrics for
// the ledger API. It is the single source of truth for metric names, labels,
// and help strings. HTTP-level metrics (latency, status codes) come from the
// echoprometheus middleware and are not declared here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledger"

// SignInTotal counts sign-in outcomes.
// Label:
//   - result: "success" or an error code ("invalid_credentials",
//     "rate_limited", "email_unconfirmed", ...)
var SignInTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_in_total",
		Help:      "Total number of sign-in attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// SessionsCreatedTotal counts sessions minted on successful sign-in.
var SessionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of sessions created.",
	},
)

// SessionsEndedTotal counts sessions ended by explicit sign-out.
var SessionsEndedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_ended_total",
		Help:      "Total number of sessions ended by sign-out.",
	},
)

// PermissionDeniedTotal counts updates rejected because the patch held no
// field the caller may edit.
// Label:
//   - resource: the ledger collection name (e.g. "bills")
var PermissionDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denied_total",
		Help:      "Total number of updates rejected by the field permission check.",
	},
	[]string{"resource"},
)
