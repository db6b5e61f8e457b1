package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// outcome: created, error, or a lowercased rejection reason (capacity_exceeded, ...)
	ReservationsTotal *prometheus.CounterVec

	// action: confirm, reject, cancel, complete
	TransitionsTotal *prometheus.CounterVec

	// backend: memory, redis; status: acquired, failed
	LockWaitDuration *prometheus.HistogramVec

	NotificationsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Reservation attempts by outcome",
			},
			[]string{"outcome"},
		),
		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_transitions_total",
				Help: "Reservation state transitions by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		LockWaitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "space_lock_wait_seconds",
				Help:    "Time spent waiting for the per-space lock",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"backend", "status"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notifications emitted by type and status",
			},
			[]string{"type", "status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.TransitionsTotal,
		m.LockWaitDuration,
		m.NotificationsTotal,
	)
	return m
}

func (m *Metrics) Reservation(outcome string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Transition(action, outcome string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(action, outcome).Inc()
}

// Transitions records n transitions at once, as the completion sweep does.
func (m *Metrics) Transitions(action, outcome string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.TransitionsTotal.WithLabelValues(action, outcome).Add(float64(n))
}

func (m *Metrics) LockWait(backend, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.LockWaitDuration.WithLabelValues(backend, status).Observe(d.Seconds())
}

func (m *Metrics) Notification(t, status string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(t, status).Inc()
}

func (m *Metrics) HTTPRequest(method, path, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
