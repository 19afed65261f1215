package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	obserrors "github.com/medscan/portal/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Portal exposes counters, gauges and histograms for the session, gate, poller and API client.
// A nil *Portal is valid and records nothing.
type Portal struct {
	sessionEvents *prometheus.CounterVec
	gateDecisions *prometheus.CounterVec
	polls         *prometheus.CounterVec
	pollLoops     *prometheus.CounterVec
	unread        prometheus.Gauge
	mutations     *prometheus.CounterVec
	apiLatency    *prometheus.HistogramVec
}

const namespace = "medscan_portal"

// New registers the portal metrics with reg (the default registerer when nil).
func New(reg prometheus.Registerer) *Portal {
	m := &Portal{
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "events_total",
			Help:      "Session lifecycle events (hydrate, login, logout) by outcome",
		}, []string{"event", "result"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Auth gate decisions on protected routes",
		}, []string{"decision", "client"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "polls_total",
			Help:      "Notification fetches by outcome",
		}, []string{"result", "error_class"}),
		pollLoops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "poll_loops_total",
			Help:      "Poll loops started and stopped",
		}, []string{"event"}),
		unread: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "unread",
			Help:      "Unread notifications in the local cache",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "mutations_total",
			Help:      "Optimistic notification mutations by operation and outcome",
		}, []string{"op", "result"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of remote MedScan API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionEvents, m.gateDecisions, m.polls, m.pollLoops, m.unread, m.mutations, m.apiLatency)
	return m
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// ObserveSession counts a session event: hydrate, login, logout or reload.
func (m *Portal) ObserveSession(event string, err error) {
	if m == nil {
		return
	}
	m.sessionEvents.WithLabelValues(event, result(err)).Inc()
}

// ObserveGate counts a gate decision for a browser or api client.
func (m *Portal) ObserveGate(decision, client string) {
	if m == nil {
		return
	}
	m.gateDecisions.WithLabelValues(decision, client).Inc()
}

// ObservePoll counts one notification fetch.
func (m *Portal) ObservePoll(err error) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(result(err), obserrors.Classify(err)).Inc()
}

// ObservePollLoop counts a loop "start" or "stop".
func (m *Portal) ObservePollLoop(event string) {
	if m == nil {
		return
	}
	m.pollLoops.WithLabelValues(event).Inc()
}

// SetUnread records the current unread count.
func (m *Portal) SetUnread(n int) {
	if m == nil {
		return
	}
	m.unread.Set(float64(n))
}

// ObserveMutation counts a mark-read, mark-all or delete.
func (m *Portal) ObserveMutation(op string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, result(err)).Inc()
}

// ObserveAPI records the latency of one remote call.
func (m *Portal) ObserveAPI(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.apiLatency.WithLabelValues(operation, result(err)).Observe(d.Seconds())
}
