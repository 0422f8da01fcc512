package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type AlertRepository interface {
	Create(ctx context.Context, alert *Alert) error
	ListActive(ctx context.Context) ([]Alert, error)
	ListByUser(ctx context.Context, userID int64) ([]Alert, error)
	ListByCooler(ctx context.Context, userID int64, cooler string, loanID *int64) ([]Alert, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	SetInactive(ctx context.Context, alertID int64) error
	DeleteByCooler(ctx context.Context, userID int64, cooler string, loanID *int64) error
}
