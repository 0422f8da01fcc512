package db

import (
	"context"

	"github.com/OlympusDAO/cooler-alerts/internal/domain"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	model := mapAlertToModel(*alert)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	alert.ID = model.ID
	alert.CreatedAt = model.CreatedAt
	alert.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *AlertRepository) ListActive(ctx context.Context) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) ListByCooler(ctx context.Context, userID int64, cooler string, loanID *int64) ([]domain.Alert, error) {
	query := r.db.WithContext(ctx).Where("user_id = ? AND cooler = ?", userID, cooler)
	if loanID != nil {
		query = query.Where("loan_id = ?", *loanID)
	}
	var models []alertModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&alertModel{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AlertRepository) SetInactive(ctx context.Context, alertID int64) error {
	result := r.db.WithContext(ctx).Model(&alertModel{}).Where("id = ?", alertID).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepository) DeleteByCooler(ctx context.Context, userID int64, cooler string, loanID *int64) error {
	query := r.db.WithContext(ctx).Where("user_id = ? AND cooler = ?", userID, cooler)
	if loanID != nil {
		query = query.Where("loan_id = ?", *loanID)
	}
	return query.Delete(&alertModel{}).Error
}

func mapAlertsToDomain(models []alertModel) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alerts = append(alerts, domain.Alert{
			ID:             model.ID,
			UserID:         model.UserID,
			ExternalRuleID: model.ExternalRuleID,
			Cooler:         model.Cooler,
			LoanID:         model.LoanID,
			ThresholdDays:  model.ThresholdDays,
			WebhookURL:     model.WebhookURL,
			Email:          model.Email,
			Active:         model.Active,
			CreatedAt:      model.CreatedAt,
			UpdatedAt:      model.UpdatedAt,
		})
	}
	return alerts
}

func mapAlertToModel(alert domain.Alert) alertModel {
	return alertModel{
		ID:             alert.ID,
		UserID:         alert.UserID,
		ExternalRuleID: alert.ExternalRuleID,
		Cooler:         alert.Cooler,
		LoanID:         alert.LoanID,
		ThresholdDays:  alert.ThresholdDays,
		WebhookURL:     alert.WebhookURL,
		Email:          alert.Email,
		Active:         alert.Active,
		CreatedAt:      alert.CreatedAt,
		UpdatedAt:      alert.UpdatedAt,
	}
}
