package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneration_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	g, err := NewGeneration(reg)
	require.NoError(t, err)

	g.Observe("draw", OutcomeSuccess, 3*time.Second)
	g.Observe("draw", OutcomeLocked, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(g.total.WithLabelValues("draw", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(g.total.WithLabelValues("draw", OutcomeLocked)))
	assert.Equal(t, 1, testutil.CollectAndCount(g.duration))
}

func TestGeneration_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewGeneration(reg)
	require.NoError(t, err)

	_, err = NewGeneration(reg)
	assert.Error(t, err)
}

func TestGeneration_NilIsNoop(t *testing.T) {
	var g *Generation
	assert.NotPanics(t, func() { g.Observe("template", OutcomeSuccess, time.Second) })
}
