// Package metrics exposes notification counters on a private Prometheus
// registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hay-kot/shoptoast/internal/core/notify"
)

// Metrics holds all Prometheus metrics for the notification core. It
// implements notify.Recorder.
type Metrics struct {
	ShownTotal       *prometheus.CounterVec
	SuppressedTotal  *prometheus.CounterVec
	RemovedTotal     *prometheus.CounterVec
	TransitionsTotal *prometheus.CounterVec
	ActiveToasts     prometheus.Gauge

	registry *prometheus.Registry
}

var _ notify.Recorder = (*Metrics)(nil)

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		ShownTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shoptoast_notifications_shown_total",
			Help: "Total number of notifications accepted and shown",
		}, []string{"category"}),
		SuppressedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shoptoast_notifications_suppressed_total",
			Help: "Total number of notifications dropped as duplicates",
		}, []string{"category"}),
		RemovedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shoptoast_notifications_removed_total",
			Help: "Total number of notifications removed from the active list",
		}, []string{"category"}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shoptoast_toast_transitions_total",
			Help: "Total number of toast lifecycle transitions by target phase",
		}, []string{"phase"}),
		ActiveToasts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shoptoast_notifications_active",
			Help: "Number of notifications currently in the active list",
		}),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.ShownTotal,
		m.SuppressedTotal,
		m.RemovedTotal,
		m.TransitionsTotal,
		m.ActiveToasts,
	)

	return m
}

// Shown records an accepted notification.
func (m *Metrics) Shown(c notify.Category) {
	if m == nil {
		return
	}
	m.ShownTotal.WithLabelValues(string(c)).Inc()
}

// Suppressed records a notification dropped by the duplicate ledger.
func (m *Metrics) Suppressed(c notify.Category) {
	if m == nil {
		return
	}
	m.SuppressedTotal.WithLabelValues(string(c)).Inc()
}

// Removed records a notification leaving the active list.
func (m *Metrics) Removed(c notify.Category) {
	if m == nil {
		return
	}
	m.RemovedTotal.WithLabelValues(string(c)).Inc()
}

// Active records the size of the active list.
func (m *Metrics) Active(n int) {
	if m == nil {
		return
	}
	m.ActiveToasts.Set(float64(n))
}

// Transition records a toast entering phase.
func (m *Metrics) Transition(phase string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(phase).Inc()
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
