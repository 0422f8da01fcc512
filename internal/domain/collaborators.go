package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAuth marks a failed login against the rule-engine API. Operations that
// hit it fail outright; the credential stays expired so the next call retries.
var ErrAuth = errors.New("rule engine authentication failed")

// ErrRegistration marks a transport-level failure talking to the rule engine.
// A provider-reported 5xx on creation is not this error; that case yields a
// nil rule id instead.
var ErrRegistration = errors.New("rule registration failed")

// RuleClient registers and removes monitoring rules on the external rule
// engine. RegisterAgent returns a nil id without error when the provider
// reports a server-side failure, which it uses to signal an already existing
// rule or a transient condition.
type RuleClient interface {
	RegisterAgent(ctx context.Context, cooler string, loanID, thresholdDays int64, email, webhook *string) (*int64, error)
	DeregisterAgent(ctx context.Context, ruleID int64) error
}

// ExpiryReader performs the read-only timeToExpiry chain query. Safe to call
// at high frequency; never mutates state.
type ExpiryReader interface {
	TimeToExpiry(ctx context.Context, cooler string, loanID int64) (time.Duration, error)
}

type WebhookSender interface {
	Send(ctx context.Context, url, cooler string, loanID int64, remaining time.Duration) error
}

type EmailSender interface {
	Send(ctx context.Context, to, cooler string, loanID int64, remaining time.Duration) error
}
