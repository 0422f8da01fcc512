package db

import "time"

type alertModel struct {
	ID             int64   `gorm:"primaryKey"`
	UserID         int64   `gorm:"index:idx_alerts_user_cooler_loan,priority:1;not null"`
	ExternalRuleID *int64  `gorm:""`
	Cooler         string  `gorm:"index:idx_alerts_user_cooler_loan,priority:2;not null"`
	LoanID         int64   `gorm:"index:idx_alerts_user_cooler_loan,priority:3;not null"`
	ThresholdDays  int64   `gorm:"not null"`
	WebhookURL     *string `gorm:""`
	Email          *string `gorm:""`
	Active         bool    `gorm:"index;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (alertModel) TableName() string {
	return "alerts"
}
