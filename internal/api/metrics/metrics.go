// Package metrics defines the custom Prometheus metrics of the Maraseel site
// backend. It is the single source of truth for metric names, labels and help
// strings. All metrics register with the default registry through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "maraseel"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthOperationsTotal counts auth operations by outcome.
// Labels:
//   - operation: signup, login, logout, forgot_password, reset_password
//   - outcome: "success" or a short failure reason (e.g. "invalid_credentials",
//     "email_taken", "invalid_token", "validation", "error")
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of auth operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// RateLimitedTotal counts requests rejected by a rate limiter.
// Label:
//   - limiter: "auth" or "password_reset"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting.",
	},
	[]string{"limiter"},
)

// SessionsActive is the number of sessions held by the in-process store,
// sampled by the session janitor.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of login sessions currently stored.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts reset notifications by outcome.
// Labels:
//   - sink: "log", "resend" or "kafka"
//   - outcome: "sent", "failed" or "dropped" (queue full)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of password reset notifications, by sink and outcome.",
	},
	[]string{"sink", "outcome"},
)

// NotificationQueueDepth tracks the jobs waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDuration measures one delivery attempt.
var NotificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of a single notification delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"sink"},
)

// ── Site metrics ──────────────────────────────────────────────────────────────

// TrackingLookupsTotal counts public tracking lookups.
// Label:
//   - result: "found" or "not_found"
var TrackingLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_lookups_total",
		Help:      "Total number of tracking lookups, by result.",
	},
	[]string{"result"},
)

// QuotesRequestedTotal counts stored quote requests.
// Label:
//   - shipment_type: "standard", "express" or "economy"
var QuotesRequestedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_requested_total",
		Help:      "Total number of quote requests, by shipment type.",
	},
	[]string{"shipment_type"},
)

// ContactMessagesTotal counts stored contact form submissions.
var ContactMessagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_messages_total",
		Help:      "Total number of contact form messages received.",
	},
)
