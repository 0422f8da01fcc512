package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "cooler"
	subsystem = "alerts"
)

type Metrics struct {
	PollTicks            prometheus.Counter
	ChainReadFailures    prometheus.Counter
	AlertsTripped        prometheus.Counter
	NotificationsSent    *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec
	DeactivationFailures prometheus.Counter
	ActiveAlerts         prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PollTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "poll_ticks_total",
			Help:      "The total number of completed poll sweeps over active alerts",
		}),
		ChainReadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chain_read_failures_total",
			Help:      "The total number of failed timeToExpiry chain reads",
		}),
		AlertsTripped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "alerts_tripped_total",
			Help:      "The total number of alerts whose expiry threshold was crossed",
		}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_sent_total",
			Help:      "The total number of notifications delivered, per channel",
		}, []string{"channel"}),
		NotificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notification_failures_total",
			Help:      "The total number of notification deliveries that failed, per channel",
		}, []string{"channel"}),
		DeactivationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "deactivation_failures_total",
			Help:      "The total number of alerts left active after both deactivation attempts failed",
		}),
		ActiveAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_alerts",
			Help:      "The number of active alerts seen on the last poll sweep",
		}),
	}

	reg.MustRegister(
		m.PollTicks,
		m.ChainReadFailures,
		m.AlertsTripped,
		m.NotificationsSent,
		m.NotificationFailures,
		m.DeactivationFailures,
		m.ActiveAlerts,
	)

	return m
}
