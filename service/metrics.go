package service

import (
	"mygreyhound/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors of the coordination layer.
// A nil *Metrics is valid and records nothing, so components can be built without metrics in tests.
type Metrics struct {
	sessionsCreated   prometheus.Counter
	sessionsDestroyed prometheus.Counter
	sweepExpired      prometheus.Counter
	sessionsExpired   prometheus.Counter
	sweepAborted      prometheus.Counter
	watcherEvents     *prometheus.CounterVec
	poolSize          prometheus.Gauge
	poolBusy          prometheus.Gauge
	bridgeBytes       prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
//
// Parameter reg is the registry handlers.NewMetricsServer later gathers from.
//
// Returns: *Metrics.
//
// Called from every cmd main before the first component is built.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "greyhound", Name: "sessions_created_total",
			Help: "Sessions bound to a worker.",
		}),
		sessionsDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "greyhound", Name: "sessions_destroyed_total",
			Help: "Sessions destroyed by clients.",
		}),
		sweepExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "greyhound", Name: "sweep_expired_total",
			Help: "Idle pipeline/worker pairs removed by the sweep.",
		}),
		sessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "greyhound", Name: "sessions_expired_total",
			Help: "Abandoned sessions unbound by the sweep.",
		}),
		sweepAborted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "greyhound", Name: "sweep_aborted_total",
			Help: "Sweep cycles aborted by a concurrent update.",
		}),
		watcherEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "greyhound", Name: "registry_events_total",
			Help: "Registry membership events by role and type.",
		}, []string{"role", "type"}),
		poolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "greyhound", Name: "process_pool_size",
			Help: "Native worker processes alive.",
		}),
		poolBusy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "greyhound", Name: "process_pool_busy",
			Help: "Native worker processes handed out.",
		}),
		bridgeBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "greyhound", Name: "bridge_bytes_total",
			Help: "Bytes forwarded by streaming bridges.",
		}),
	}
	reg.MustRegister(m.sessionsCreated, m.sessionsDestroyed, m.sweepExpired, m.sessionsExpired, m.sweepAborted,
		m.watcherEvents, m.poolSize, m.poolBusy, m.bridgeBytes)
	return m
}

func (m *Metrics) sessionCreated() {
	if m != nil {
		m.sessionsCreated.Inc()
	}
}

func (m *Metrics) sessionDestroyed() {
	if m != nil {
		m.sessionsDestroyed.Inc()
	}
}

func (m *Metrics) pairExpired() {
	if m != nil {
		m.sweepExpired.Inc()
	}
}

func (m *Metrics) sessionExpired() {
	if m != nil {
		m.sessionsExpired.Inc()
	}
}

func (m *Metrics) sweepAbort() {
	if m != nil {
		m.sweepAborted.Inc()
	}
}

func (m *Metrics) watchEvent(role domain.Role, typ domain.RegistryEventType) {
	if m != nil {
		m.watcherEvents.WithLabelValues(string(role), string(typ)).Inc()
	}
}

func (m *Metrics) pool(size, busy int) {
	if m != nil {
		m.poolSize.Set(float64(size))
		m.poolBusy.Set(float64(busy))
	}
}

func (m *Metrics) bridged(n int) {
	if m != nil {
		m.bridgeBytes.Add(float64(n))
	}
}
