// Package metrics defines and registers the Prometheus collectors of the blog
// API. Collectors register with the default registry at package init through
// promauto; /metrics serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── HTTP ─────────────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route template (e.g. "/posts/:id"), not the raw path
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures handler latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests from routing to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Auth ─────────────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts registration and login outcomes.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "failure" (bad credentials) or "conflict" (email taken)
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// ── Posts ────────────────────────────────────────────────────────────────────

// PostsWrittenTotal counts successful post mutations.
// Label:
//   - op: "create", "update" or "delete"
var PostsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_written_total",
		Help:      "Total number of post mutations, by operation.",
	},
	[]string{"op"},
)

// PostCacheTotal counts slug cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var PostCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_cache_total",
		Help:      "Total number of post cache lookups, by result.",
	},
	[]string{"result"},
)
