// Package metrics defines and registers the custom Prometheus metrics of the
// Cursos UC client. It is the single source of truth for metric names, labels,
// and help strings. All metrics are registered with the default registry at
// package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cursosuc"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts calls made to the remote backend.
// Labels:
//   - op: logical operation (e.g. "list_courses", "update_list")
//   - code: HTTP status code, or "transport" when no response arrived
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of backend requests, by operation and status code.",
	},
	[]string{"op", "code"},
)

// GatewayRequestDuration measures backend round-trip latency.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of backend requests, by operation.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// CatalogRefreshTotal counts catalog refreshes.
// Label:
//   - result: "applied", "stale" (a newer result was already held) or "error"
var CatalogRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_refresh_total",
		Help:      "Total number of catalog refreshes, by result.",
	},
	[]string{"result"},
)

// SearchesTotal counts searches, labelled by result ("ok", "busy", "error").
var SearchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of catalog searches, by result.",
	},
	[]string{"result"},
)

// ListMutationsTotal counts list mutations.
// Labels:
//   - op: "create", "delete", "add_course", "remove_course"
//   - result: "changed", "noop", "busy" or "error"
var ListMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_mutations_total",
		Help:      "Total number of course list mutations, by operation and result.",
	},
	[]string{"op", "result"},
)

// CommentMutationsTotal counts comment mutations, by op and result.
var CommentMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comment_mutations_total",
		Help:      "Total number of comment mutations, by operation and result.",
	},
	[]string{"op", "result"},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// ChatRepliesTotal counts bot replies by the keyword rule that produced them.
// Label:
//   - rule: rule name, or "fallback" when no rule matched
var ChatRepliesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_replies_total",
		Help:      "Total number of chatbot replies, by matched rule.",
	},
	[]string{"rule"},
)

// ChatAwaitingReply is 1 while a chat message awaits its reply.
var ChatAwaitingReply = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chat_awaiting_reply",
		Help:      "1 while a chat message is waiting for the bot reply, else 0.",
	},
)
