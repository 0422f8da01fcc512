package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/OlympusDAO/cooler-alerts/internal/domain"
)

type fakeAlertRepo struct {
	mu     sync.Mutex
	alerts []domain.Alert
	nextID int64

	countErr        error
	setInactiveErrs []error
	inactiveCalls   []int64
	deleteCalls     int
}

func (r *fakeAlertRepo) Create(_ context.Context, alert *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	alert.ID = r.nextID
	r.alerts = append(r.alerts, *alert)
	return nil
}

func (r *fakeAlertRepo) ListActive(context.Context) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []domain.Alert
	for _, alert := range r.alerts {
		if alert.Active {
			active = append(active, alert)
		}
	}
	return active, nil
}

func (r *fakeAlertRepo) ListByUser(_ context.Context, userID int64) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matching []domain.Alert
	for _, alert := range r.alerts {
		if alert.UserID == userID {
			matching = append(matching, alert)
		}
	}
	return matching, nil
}

func (r *fakeAlertRepo) ListByCooler(_ context.Context, userID int64, cooler string, loanID *int64) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matching []domain.Alert
	for _, alert := range r.alerts {
		if alert.UserID != userID || alert.Cooler != cooler {
			continue
		}
		if loanID != nil && alert.LoanID != *loanID {
			continue
		}
		matching = append(matching, alert)
	}
	return matching, nil
}

func (r *fakeAlertRepo) CountByUser(_ context.Context, userID int64) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, alert := range r.alerts {
		if alert.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAlertRepo) SetInactive(_ context.Context, alertID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inactiveCalls = append(r.inactiveCalls, alertID)
	if len(r.setInactiveErrs) > 0 {
		err := r.setInactiveErrs[0]
		r.setInactiveErrs = r.setInactiveErrs[1:]
		if err != nil {
			return err
		}
	}
	for i := range r.alerts {
		if r.alerts[i].ID == alertID {
			r.alerts[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAlertRepo) DeleteByCooler(_ context.Context, userID int64, cooler string, loanID *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	var remaining []domain.Alert
	for _, alert := range r.alerts {
		match := alert.UserID == userID && alert.Cooler == cooler && (loanID == nil || alert.LoanID == *loanID)
		if !match {
			remaining = append(remaining, alert)
		}
	}
	r.alerts = remaining
	return nil
}

type fakeRuleClient struct {
	mu sync.Mutex

	registerID  *int64
	registerErr error

	deregisterErrs  map[int64]error
	deregisterCalls map[int64]int
}

func (c *fakeRuleClient) RegisterAgent(context.Context, string, int64, int64, *string, *string) (*int64, error) {
	if c.registerErr != nil {
		return nil, c.registerErr
	}
	return c.registerID, nil
}

func (c *fakeRuleClient) DeregisterAgent(_ context.Context, ruleID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deregisterCalls == nil {
		c.deregisterCalls = make(map[int64]int)
	}
	c.deregisterCalls[ruleID]++
	return c.deregisterErrs[ruleID]
}

type fakeReader struct {
	remaining map[string]time.Duration
	errs      map[string]error
	calls     map[string]int
}

func readerKey(cooler string, loanID int64) string {
	return fmt.Sprintf("%s/%d", cooler, loanID)
}

func (r *fakeReader) TimeToExpiry(_ context.Context, cooler string, loanID int64) (time.Duration, error) {
	key := readerKey(cooler, loanID)
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[key]++
	if err := r.errs[key]; err != nil {
		return 0, err
	}
	remaining, ok := r.remaining[key]
	if !ok {
		return 0, errors.New("unknown loan")
	}
	return remaining, nil
}

type sentNotification struct {
	target    string
	cooler    string
	loanID    int64
	remaining time.Duration
}

type fakeSender struct {
	err  error
	sent []sentNotification
}

func (s *fakeSender) Send(_ context.Context, target, cooler string, loanID int64, remaining time.Duration) error {
	s.sent = append(s.sent, sentNotification{target: target, cooler: cooler, loanID: loanID, remaining: remaining})
	return s.err
}
