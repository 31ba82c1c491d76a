package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	requests          *prometheus.CounterVec
	requestLatency    *prometheus.HistogramVec
	runs              *prometheus.CounterVec
	runAssignments    *prometheus.GaugeVec
	runLatency        *prometheus.HistogramVec
	activeConnections prometheus.Gauge
	connections       prometheus.Counter
	backlog           prometheus.Gauge
	queueWait         prometheus.Histogram
	timeouts          prometheus.Counter
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector. A nil registerer means
// prometheus.DefaultRegisterer, an empty namespace means "tasksched".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "tasksched"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatcher",
			Name:      "requests_total",
			Help:      "Total dispatched requests by action and status code.",
		}, []string{"action", "code"})
		p.requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "dispatcher",
			Name:      "request_duration_seconds",
			Help:      "Request handling latency in seconds by action.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"action"})
		p.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "runs_total",
			Help:      "Total assignment runs by strategy and scope.",
		}, []string{"strategy", "scope"})
		p.runAssignments = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "last_run_assignments",
			Help:      "Assignments produced by the last run per strategy and scope.",
		}, []string{"strategy", "scope"})
		p.runLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "run_duration_seconds",
			Help:      "Assignment run latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"strategy", "scope"})
		p.activeConnections = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "server",
			Name:      "active_connections",
			Help:      "Connections accepted and not yet closed.",
		})
		p.connections = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "server",
			Name:      "connections_total",
			Help:      "Total accepted connections.",
		})
		p.backlog = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "server",
			Name:      "queued_connections",
			Help:      "Accepted connections waiting for a worker.",
		})
		p.queueWait = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "server",
			Name:      "queue_wait_seconds",
			Help:      "Time an accepted connection waited for a worker in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
		})
		p.timeouts = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "server",
			Name:      "connection_timeouts_total",
			Help:      "Connections closed after exceeding the inactivity timeout.",
		})
		p.reg.MustRegister(p.requests, p.requestLatency, p.runs, p.runAssignments, p.runLatency,
			p.activeConnections, p.connections, p.backlog, p.queueWait, p.timeouts)
	})
}

func (p *PrometheusCollector) RequestHandled(action string, statusCode int, elapsed time.Duration) {
	p.ensureRegistered()
	p.requests.WithLabelValues(action, strconv.Itoa(statusCode)).Inc()
	p.requestLatency.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (p *PrometheusCollector) AssignmentRun(strategy, scope string, assignments int, elapsed time.Duration) {
	p.ensureRegistered()
	p.runs.WithLabelValues(strategy, scope).Inc()
	p.runAssignments.WithLabelValues(strategy, scope).Set(float64(assignments))
	p.runLatency.WithLabelValues(strategy, scope).Observe(elapsed.Seconds())
}

func (p *PrometheusCollector) ConnectionOpened() {
	p.ensureRegistered()
	p.connections.Inc()
	p.activeConnections.Inc()
}

func (p *PrometheusCollector) ConnectionDequeued(backlog int, wait time.Duration) {
	p.ensureRegistered()
	p.backlog.Set(float64(backlog))
	p.queueWait.Observe(wait.Seconds())
}

func (p *PrometheusCollector) ConnectionClosed() {
	p.ensureRegistered()
	p.activeConnections.Dec()
}

func (p *PrometheusCollector) ConnectionTimedOut() {
	p.ensureRegistered()
	p.timeouts.Inc()
}
