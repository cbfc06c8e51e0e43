// Package metrics defines the Prometheus instrumentation for the agent.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors used by the agent.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	SkillExecutions   *prometheus.CounterVec
	SkillDuration     *prometheus.HistogramVec
	StreamsActive     prometheus.Gauge
	BranchFailures    *prometheus.CounterVec
	ReportsPublished  prometheus.Counter
	ResolverFallbacks prometheus.Counter
}

// New creates metrics registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates metrics registered on the given registerer. Tests pass a
// fresh registry so parallel packages never collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webwatcher_rpc_requests_total",
			Help: "JSON-RPC requests by method and outcome",
		}, []string{"method", "outcome"}),
		SkillExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webwatcher_skill_executions_total",
			Help: "Skill executions by skill id and outcome",
		}, []string{"skill", "outcome"}),
		SkillDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webwatcher_skill_duration_seconds",
			Help:    "Skill execution latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"skill"}),
		StreamsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "webwatcher_streams_active",
			Help: "Open SSE streams",
		}),
		BranchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webwatcher_scan_branch_failures_total",
			Help: "Comprehensive-scan branch failures by branch name",
		}, []string{"branch"}),
		ReportsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "webwatcher_reports_published_total",
			Help: "Comprehensive reports published to the event bus",
		}),
		ResolverFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "webwatcher_resolver_fallbacks_total",
			Help: "Messages routed by keyword fallback instead of a typed target",
		}),
	}
}
