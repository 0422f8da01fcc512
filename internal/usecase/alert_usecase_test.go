package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/OlympusDAO/cooler-alerts/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCreateAlertStoresExternalRule(t *testing.T) {
	repo := &fakeAlertRepo{}
	rules := &fakeRuleClient{registerID: int64Ptr(42)}
	uc := NewAlertUsecase(repo, rules, zap.NewNop())

	alert, err := uc.CreateAlert(context.Background(), 7, testCooler, 3, 5, strPtr("https://hooks.test/1"), nil)
	require.NoError(t, err)
	require.NotZero(t, alert.ID)
	require.True(t, alert.Active)
	require.NotNil(t, alert.ExternalRuleID)
	require.Equal(t, int64(42), *alert.ExternalRuleID)

	stored, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestCreateAlertToleratesProviderSoftFailure(t *testing.T) {
	repo := &fakeAlertRepo{}
	rules := &fakeRuleClient{registerID: nil}
	uc := NewAlertUsecase(repo, rules, zap.NewNop())

	alert, err := uc.CreateAlert(context.Background(), 7, testCooler, 3, 5, strPtr("https://hooks.test/1"), nil)
	require.NoError(t, err)
	require.Nil(t, alert.ExternalRuleID)

	stored, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestCreateAlertFailsOnRegistrationError(t *testing.T) {
	repo := &fakeAlertRepo{}
	rules := &fakeRuleClient{registerErr: fmt.Errorf("%w: connection refused", domain.ErrRegistration)}
	uc := NewAlertUsecase(repo, rules, zap.NewNop())

	_, err := uc.CreateAlert(context.Background(), 7, testCooler, 3, 5, strPtr("https://hooks.test/1"), nil)
	require.ErrorIs(t, err, domain.ErrRegistration)

	stored, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestCreateAlertValidation(t *testing.T) {
	uc := NewAlertUsecase(&fakeAlertRepo{}, &fakeRuleClient{registerID: int64Ptr(1)}, zap.NewNop())
	ctx := context.Background()

	_, err := uc.CreateAlert(ctx, 7, "not-an-address", 3, 5, strPtr("https://hooks.test/1"), nil)
	require.ErrorIs(t, err, ErrInvalidCooler)

	_, err = uc.CreateAlert(ctx, 7, testCooler, 3, -1, strPtr("https://hooks.test/1"), nil)
	require.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = uc.CreateAlert(ctx, 7, testCooler, 3, 5, nil, nil)
	require.ErrorIs(t, err, ErrNoChannel)
}

func TestCreateAlertEnforcesPerUserCap(t *testing.T) {
	repo := &fakeAlertRepo{}
	rules := &fakeRuleClient{registerID: int64Ptr(1)}
	uc := NewAlertUsecase(repo, rules, zap.NewNop())
	ctx := context.Background()

	for i := int64(0); i < domain.MaxAlertsPerUser; i++ {
		_, err := uc.CreateAlert(ctx, 7, testCooler, i, 5, strPtr("https://hooks.test/1"), nil)
		require.NoError(t, err)
	}

	_, err := uc.CreateAlert(ctx, 7, testCooler, 99, 5, strPtr("https://hooks.test/1"), nil)
	require.ErrorIs(t, err, ErrTooManyAlerts)

	// Another user is unaffected by the cap.
	_, err = uc.CreateAlert(ctx, 8, testCooler, 0, 5, strPtr("https://hooks.test/1"), nil)
	require.NoError(t, err)
}

func TestDeleteAlertsDeregistersConcurrentlyAndCommits(t *testing.T) {
	repo := &fakeAlertRepo{alerts: []domain.Alert{
		{ID: 1, UserID: 7, Cooler: testCooler, LoanID: 1, ExternalRuleID: int64Ptr(101), Active: true},
		{ID: 2, UserID: 7, Cooler: testCooler, LoanID: 2, ExternalRuleID: int64Ptr(102), Active: true},
		{ID: 3, UserID: 7, Cooler: testCooler, LoanID: 3, Active: true},
	}}
	rules := &fakeRuleClient{}
	uc := NewAlertUsecase(repo, rules, zap.NewNop())

	deleted, err := uc.DeleteAlerts(context.Background(), 7, testCooler, nil)
	require.NoError(t, err)
	require.Equal(t, 3, deleted)
	require.Equal(t, 1, rules.deregisterCalls[101])
	require.Equal(t, 1, rules.deregisterCalls[102])
	require.Equal(t, 1, repo.deleteCalls)

	stored, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestDeleteAlertsKeepsRecordsWhenOneDeregistrationFails(t *testing.T) {
	repo := &fakeAlertRepo{alerts: []domain.Alert{
		{ID: 1, UserID: 7, Cooler: testCooler, LoanID: 1, ExternalRuleID: int64Ptr(101), Active: true},
		{ID: 2, UserID: 7, Cooler: testCooler, LoanID: 2, ExternalRuleID: int64Ptr(102), Active: true},
		{ID: 3, UserID: 7, Cooler: testCooler, LoanID: 3, ExternalRuleID: int64Ptr(103), Active: true},
	}}
	rules := &fakeRuleClient{deregisterErrs: map[int64]error{
		102: fmt.Errorf("%w: connection reset", domain.ErrRegistration),
	}}
	uc := NewAlertUsecase(repo, rules, zap.NewNop())

	_, err := uc.DeleteAlerts(context.Background(), 7, testCooler, nil)
	require.ErrorIs(t, err, domain.ErrRegistration)

	// Siblings of the failing task still ran, exactly once each.
	require.Equal(t, 1, rules.deregisterCalls[101])
	require.Equal(t, 1, rules.deregisterCalls[102])
	require.Equal(t, 1, rules.deregisterCalls[103])

	// The storage deletion never happened.
	require.Zero(t, repo.deleteCalls)
	stored, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, stored, 3)
}

func TestDeleteAlertsByLoanID(t *testing.T) {
	repo := &fakeAlertRepo{alerts: []domain.Alert{
		{ID: 1, UserID: 7, Cooler: testCooler, LoanID: 1, ExternalRuleID: int64Ptr(101), Active: true},
		{ID: 2, UserID: 7, Cooler: testCooler, LoanID: 2, ExternalRuleID: int64Ptr(102), Active: true},
	}}
	rules := &fakeRuleClient{}
	uc := NewAlertUsecase(repo, rules, zap.NewNop())

	deleted, err := uc.DeleteAlerts(context.Background(), 7, testCooler, int64Ptr(1))
	require.NoError(t, err)
	require.Equal(t, 1, deleted)
	require.Equal(t, 1, rules.deregisterCalls[101])
	require.Zero(t, rules.deregisterCalls[102])

	stored, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, int64(2), stored[0].LoanID)
}

func TestDeleteAlertsNotFound(t *testing.T) {
	uc := NewAlertUsecase(&fakeAlertRepo{}, &fakeRuleClient{}, zap.NewNop())

	_, err := uc.DeleteAlerts(context.Background(), 7, testCooler, nil)
	require.ErrorIs(t, err, ErrAlertNotFound)
}

func TestCreateAlertPropagatesStorageError(t *testing.T) {
	repo := &fakeAlertRepo{countErr: errors.New("storage down")}
	uc := NewAlertUsecase(repo, &fakeRuleClient{registerID: int64Ptr(1)}, zap.NewNop())

	_, err := uc.CreateAlert(context.Background(), 7, testCooler, 3, 5, strPtr("https://hooks.test/1"), nil)
	require.Error(t, err)
}
