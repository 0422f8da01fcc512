package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/OlympusDAO/cooler-alerts/internal/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrInvalidCooler    = errors.New("invalid cooler address")
	ErrInvalidThreshold = errors.New("invalid threshold")
	ErrNoChannel        = errors.New("no delivery channel configured")
	ErrTooManyAlerts    = errors.New("alert limit reached")
	ErrAlertNotFound    = errors.New("alert not found")
)

type AlertUsecase struct {
	alerts domain.AlertRepository
	rules  domain.RuleClient
	logger *zap.Logger
}

func NewAlertUsecase(alerts domain.AlertRepository, rules domain.RuleClient, logger *zap.Logger) *AlertUsecase {
	return &AlertUsecase{alerts: alerts, rules: rules, logger: logger}
}

// CreateAlert validates the request, registers the external monitoring rule,
// and stores the alert. A provider-side soft failure on registration (nil
// rule id) still stores the alert; it is then watched by the local poller
// only.
func (u *AlertUsecase) CreateAlert(ctx context.Context, userID int64, cooler string, loanID, thresholdDays int64, webhook, email *string) (*domain.Alert, error) {
	if !isCoolerAddress(cooler) {
		return nil, ErrInvalidCooler
	}
	if thresholdDays < 0 {
		return nil, ErrInvalidThreshold
	}
	if webhook == nil && email == nil {
		return nil, ErrNoChannel
	}

	count, err := u.alerts.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxAlertsPerUser {
		return nil, ErrTooManyAlerts
	}

	ruleID, err := u.rules.RegisterAgent(ctx, cooler, loanID, thresholdDays, email, webhook)
	if err != nil {
		return nil, err
	}
	if ruleID == nil {
		u.logger.Warn("external rule not created, alert will rely on local polling only",
			zap.Int64("user_id", userID),
			zap.String("cooler", cooler),
			zap.Int64("loan_id", loanID),
		)
	}

	alert := &domain.Alert{
		UserID:         userID,
		ExternalRuleID: ruleID,
		Cooler:         cooler,
		LoanID:         loanID,
		ThresholdDays:  thresholdDays,
		WebhookURL:     webhook,
		Email:          email,
		Active:         true,
	}
	if err := u.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	u.logger.Info("alert created",
		zap.Int64("alert_id", alert.ID),
		zap.Int64("user_id", userID),
		zap.String("cooler", cooler),
		zap.Int64("loan_id", loanID),
		zap.Int64("threshold_days", thresholdDays),
	)
	return alert, nil
}

func (u *AlertUsecase) ListAlerts(ctx context.Context, userID int64) ([]domain.Alert, error) {
	return u.alerts.ListByUser(ctx, userID)
}

// DeleteAlerts removes every alert of the user matching cooler (and loan id,
// when given). External rules are deregistered first, concurrently; if any
// deregistration fails the local records are kept, so no still-registered
// rule is ever orphaned without a local trace. Returns the number of alerts
// removed.
func (u *AlertUsecase) DeleteAlerts(ctx context.Context, userID int64, cooler string, loanID *int64) (int, error) {
	if !isCoolerAddress(cooler) {
		return 0, ErrInvalidCooler
	}

	matching, err := u.alerts.ListByCooler(ctx, userID, cooler, loanID)
	if err != nil {
		return 0, err
	}
	if len(matching) == 0 {
		return 0, ErrAlertNotFound
	}

	ruleIDs := make([]int64, 0, len(matching))
	for _, alert := range matching {
		if alert.ExternalRuleID != nil {
			ruleIDs = append(ruleIDs, *alert.ExternalRuleID)
		}
	}

	if err := u.deregisterAll(ctx, ruleIDs); err != nil {
		return 0, err
	}

	if err := u.alerts.DeleteByCooler(ctx, userID, cooler, loanID); err != nil {
		return 0, err
	}

	u.logger.Info("alerts deleted",
		zap.Int64("user_id", userID),
		zap.String("cooler", cooler),
		zap.Int("count", len(matching)),
	)
	return len(matching), nil
}

// deregisterAll fans out one deregistration per rule id and joins them all.
// A failing task never cancels its siblings; every outcome is collected so
// the caller knows the full picture before touching storage.
func (u *AlertUsecase) deregisterAll(ctx context.Context, ruleIDs []int64) error {
	if len(ruleIDs) == 0 {
		return nil
	}

	results := make(chan error, len(ruleIDs))
	for _, ruleID := range ruleIDs {
		go func(id int64) {
			if err := u.rules.DeregisterAgent(ctx, id); err != nil {
				results <- fmt.Errorf("deregister rule %d: %w", id, err)
				return
			}
			results <- nil
		}(ruleID)
	}

	var merged error
	for range ruleIDs {
		merged = multierr.Append(merged, <-results)
	}
	return merged
}

func isCoolerAddress(cooler string) bool {
	return len(cooler) == 42 && strings.HasPrefix(cooler, "0x")
}
