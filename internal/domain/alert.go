package domain

import "time"

// MaxAlertsPerUser caps how many alerts a single user may hold at once.
const MaxAlertsPerUser = 3

type Alert struct {
	ID             int64
	UserID         int64
	ExternalRuleID *int64
	Cooler         string
	LoanID         int64
	ThresholdDays  int64
	WebhookURL     *string
	Email          *string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Threshold returns the advance-warning window as a duration, in the same
// unit as the seconds-to-expiry value returned by the monitoring contract.
func (a Alert) Threshold() time.Duration {
	return time.Duration(a.ThresholdDays) * 24 * time.Hour
}
