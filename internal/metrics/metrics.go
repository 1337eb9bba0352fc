package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Registrations *prometheus.CounterVec
	Notifications *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "writofest_registrations_total",
			Help: "Registration submissions by outcome",
		}, []string{"outcome"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "writofest_notifications_total",
			Help: "Notification deliveries by channel and result",
		}, []string{"channel", "result"}),
	}
}

func (m *Metrics) RecordRegistration(outcome string) {
	m.Registrations.WithLabelValues(outcome).Inc()
}

// RecordNotification counts one delivery attempt; result is "sent" or "failed".
func (m *Metrics) RecordNotification(channel string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.Notifications.WithLabelValues(channel, result).Inc()
}
