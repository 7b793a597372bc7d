package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts lifecycle events. With a nil registry the collectors still
// work but are not exported.
type Metrics struct {
	submissions   prometheus.Counter
	bookingRows   prometheus.Counter
	decisions     *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		submissions: factory.NewCounter(prometheus.CounterOpts{
			Name: "venue_booking_submissions_total",
			Help: "Total number of accepted booking requests",
		}),
		bookingRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "venue_booking_slot_rows_created_total",
			Help: "Total number of slot bookings created",
		}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "venue_booking_decisions_total",
			Help: "Decision attempts by action and outcome",
		}, []string{"action", "outcome"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "venue_booking_notifications_total",
			Help: "Admin notifications by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) submitted(rows int) {
	m.submissions.Inc()
	m.bookingRows.Add(float64(rows))
}

func (m *Metrics) decided(action, outcome string) {
	m.decisions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) notified(ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.notifications.WithLabelValues(result).Inc()
}
