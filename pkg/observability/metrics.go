package observability

import (
	"context"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the reconciliation collectors.
type Metrics struct {
	Reconciliations *prometheus.CounterVec
	Errors          *prometheus.CounterVec
	Visibility      *prometheus.CounterVec
	ActiveCharts    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reconciliations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sonisync_reconciliations_total",
				Help: "Data-updated hooks by classified verdict and applied strategy",
			},
			[]string{"verdict", "applied"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sonisync_errors_total",
				Help: "Non-fatal reconciliation failures by kind",
			},
			[]string{"kind"},
		),
		Visibility: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sonisync_visibility_changes_total",
				Help: "Series hide/show operations mirrored into engines",
			},
			[]string{"visible"},
		),
		ActiveCharts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sonisync_active_charts",
			Help: "Charts with a live sonification engine",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Reconciliations, m.Errors, m.Visibility, m.ActiveCharts)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActivate: func(context.Context, *domain.ChartEvent) {
			m.ActiveCharts.Inc()
		},
		OnDestroy: func(context.Context, *domain.ChartEvent) {
			m.ActiveCharts.Dec()
		},
		OnReconcile: func(_ context.Context, e *domain.ReconcileEvent) {
			m.Reconciliations.WithLabelValues(string(e.Verdict), string(e.Applied)).Inc()
		},
		OnVisibility: func(_ context.Context, e *domain.VisibilityEvent) {
			visible := "false"
			if e.Visible {
				visible = "true"
			}
			m.Visibility.WithLabelValues(visible).Inc()
		},
		OnError: func(_ context.Context, e *domain.ErrorEvent) {
			m.Errors.WithLabelValues(e.Kind).Inc()
		},
	}
}
