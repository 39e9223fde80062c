package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetReturnsSingleton(t *testing.T) {
	a := Get()
	b := Get()
	assert.Same(t, a, b)
}

func TestCountersAccumulate(t *testing.T) {
	r := Get()

	before := testutil.ToFloat64(r.UpstreamErrors.WithLabelValues("switch"))
	r.UpstreamErrors.WithLabelValues("switch").Inc()
	r.UpstreamErrors.WithLabelValues("switch").Inc()
	after := testutil.ToFloat64(r.UpstreamErrors.WithLabelValues("switch"))

	assert.Equal(t, before+2, after)
}

func TestWSClientsGauge(t *testing.T) {
	r := Get()

	r.WSClients.Set(0)
	r.WSClients.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.WSClients))
	r.WSClients.Dec()
	assert.Equal(t, 0.0, testutil.ToFloat64(r.WSClients))
}
