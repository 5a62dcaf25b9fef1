package service

import (
	"testing"

	"mygreyhound/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.sessionCreated()
		m.sessionDestroyed()
		m.pairExpired()
		m.sessionExpired()
		m.sweepAbort()
		m.watchEvent(domain.RoleSessionHandler, domain.RegistryEventRegister)
		m.pool(1, 1)
		m.bridged(10)
	})
}

func TestMetrics_Records(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.sessionCreated()
	m.sessionCreated()
	m.pairExpired()
	m.sessionExpired()
	m.sessionExpired()
	m.sweepAbort()
	m.watchEvent(domain.RoleSessionHandler, domain.RegistryEventUnregister)
	m.pool(3, 2)
	m.bridged(128)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweepExpired))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsExpired))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweepAborted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.watcherEvents.WithLabelValues("sh", "unregister")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.poolSize))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.poolBusy))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.bridgeBytes))
}
