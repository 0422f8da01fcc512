package usecase

import (
	"context"
	"time"

	"github.com/OlympusDAO/cooler-alerts/internal/domain"
	"github.com/OlympusDAO/cooler-alerts/internal/infra/metrics"
	"github.com/OlympusDAO/cooler-alerts/internal/infra/notify"
	"go.uber.org/zap"
)

// Monitor is the expiry polling loop. Each tick it sweeps every active alert,
// reads the loan's remaining lifetime on chain, and on trip notifies the
// configured channels and deactivates the alert. Failures are isolated to the
// single alert and tick; the loop itself never stops on error.
//
// Delivery is at-least-once: an alert whose deactivation failed on both
// attempts stays active and is re-notified on the next tick.
type Monitor struct {
	alerts   domain.AlertRepository
	reader   domain.ExpiryReader
	webhooks domain.WebhookSender
	emails   domain.EmailSender
	metrics  *metrics.Metrics
	logger   *zap.Logger

	interval  time.Duration
	retryWait time.Duration
}

func NewMonitor(
	alerts domain.AlertRepository,
	reader domain.ExpiryReader,
	webhooks domain.WebhookSender,
	emails domain.EmailSender,
	m *metrics.Metrics,
	interval time.Duration,
	logger *zap.Logger,
) *Monitor {
	return &Monitor{
		alerts:    alerts,
		reader:    reader,
		webhooks:  webhooks,
		emails:    emails,
		metrics:   m,
		logger:    logger,
		interval:  interval,
		retryWait: time.Second,
	}
}

// Run polls until ctx is cancelled. Meant to be launched once as a background
// goroutine for the process lifetime.
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info("expiry monitor started", zap.Duration("interval", m.interval))
	for {
		m.Tick(ctx)

		select {
		case <-ctx.Done():
			m.logger.Info("expiry monitor stopped")
			return
		case <-time.After(m.interval):
		}
	}
}

// Tick performs one full sweep over the active alerts.
func (m *Monitor) Tick(ctx context.Context) {
	alerts, err := m.alerts.ListActive(ctx)
	if err != nil {
		m.logger.Error("failed to list active alerts", zap.Error(err))
		return
	}

	m.metrics.ActiveAlerts.Set(float64(len(alerts)))
	for _, alert := range alerts {
		m.process(ctx, alert)
	}
	m.metrics.PollTicks.Inc()
}

func (m *Monitor) process(ctx context.Context, alert domain.Alert) {
	remaining, err := m.reader.TimeToExpiry(ctx, alert.Cooler, alert.LoanID)
	if err != nil {
		// Transient by contract; the next tick retries naturally.
		m.metrics.ChainReadFailures.Inc()
		m.logger.Warn("chain read failed, skipping alert this tick",
			zap.Int64("alert_id", alert.ID),
			zap.String("cooler", alert.Cooler),
			zap.Int64("loan_id", alert.LoanID),
			zap.Error(err),
		)
		return
	}

	if remaining > alert.Threshold() {
		return
	}

	m.metrics.AlertsTripped.Inc()
	m.logger.Info("alert tripped",
		zap.Int64("alert_id", alert.ID),
		zap.String("cooler", alert.Cooler),
		zap.Int64("loan_id", alert.LoanID),
		zap.String("days_left", notify.FormatDays(remaining)),
	)

	m.dispatch(ctx, alert, remaining)
	m.deactivate(ctx, alert.ID)
}

// dispatch sends the alert on every configured channel. One channel failing
// never blocks the other, and neither failure blocks deactivation.
func (m *Monitor) dispatch(ctx context.Context, alert domain.Alert, remaining time.Duration) {
	if alert.WebhookURL != nil {
		if err := m.webhooks.Send(ctx, *alert.WebhookURL, alert.Cooler, alert.LoanID, remaining); err != nil {
			m.metrics.NotificationFailures.WithLabelValues("webhook").Inc()
			m.logger.Warn("webhook notification failed", zap.Int64("alert_id", alert.ID), zap.Error(err))
		} else {
			m.metrics.NotificationsSent.WithLabelValues("webhook").Inc()
		}
	}

	if alert.Email != nil {
		if err := m.emails.Send(ctx, *alert.Email, alert.Cooler, alert.LoanID, remaining); err != nil {
			m.metrics.NotificationFailures.WithLabelValues("email").Inc()
			m.logger.Warn("email notification failed", zap.Int64("alert_id", alert.ID), zap.Error(err))
		} else {
			m.metrics.NotificationsSent.WithLabelValues("email").Inc()
		}
	}
}

// deactivate flips the alert inactive, retrying once after a short backoff.
// Giving up leaves the alert active, so it is re-notified next tick.
func (m *Monitor) deactivate(ctx context.Context, alertID int64) {
	err := m.alerts.SetInactive(ctx, alertID)
	if err == nil {
		return
	}
	m.logger.Warn("alert deactivation failed, retrying", zap.Int64("alert_id", alertID), zap.Error(err))

	select {
	case <-ctx.Done():
		return
	case <-time.After(m.retryWait):
	}

	if err := m.alerts.SetInactive(ctx, alertID); err != nil {
		m.metrics.DeactivationFailures.Inc()
		m.logger.Error("alert deactivation failed twice, leaving active",
			zap.Int64("alert_id", alertID),
			zap.Error(err),
		)
	}
}
