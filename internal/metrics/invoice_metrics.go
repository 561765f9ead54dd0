package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeDBError = "db_error"
)

// InvoiceMetrics counts invoice form actions by outcome.
type InvoiceMetrics interface {
	ObserveAction(action, outcome string)
}

type invoiceMetrics struct {
	actions *prometheus.CounterVec
}

func NewInvoiceMetrics(registry prometheus.Registerer) InvoiceMetrics {
	actions := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_actions_total",
			Help: "The total number of invoice form actions by outcome",
		},
		[]string{"action", "outcome"},
	)
	return &invoiceMetrics{actions: actions}
}

func (m *invoiceMetrics) ObserveAction(action, outcome string) {
	m.actions.WithLabelValues(action, outcome).Inc()
}

type nopMetrics struct{}

// Nop discards every observation.
func Nop() InvoiceMetrics { return nopMetrics{} }

func (nopMetrics) ObserveAction(string, string) {}
