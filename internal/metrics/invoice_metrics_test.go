package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAction(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewInvoiceMetrics(registry).(*invoiceMetrics)

	m.ObserveAction("create", OutcomeSuccess)
	m.ObserveAction("create", OutcomeSuccess)
	m.ObserveAction("delete", OutcomeDBError)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actions.WithLabelValues("create", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("delete", OutcomeDBError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.actions.WithLabelValues("update", OutcomeInvalid)))
	// the update lookup above created a third series
	assert.Equal(t, 3, testutil.CollectAndCount(registry, "invoice_actions_total"))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().ObserveAction("create", OutcomeSuccess) })
}
