package hypernative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/OlympusDAO/cooler-alerts/internal/domain"
	"go.uber.org/zap"
)

const (
	secondsPerDay = 24 * 3600

	agentType = "genericNodeQuery"
	agentName = "COOLER ALERTS"

	timeToExpirySig = "timeToExpiry(address cooler_, uint256 id_)"
)

type Config struct {
	BaseURL            string
	Username           string
	Password           string
	TokenLifespan      time.Duration
	Timeout            time.Duration
	MonitoringContract string
}

// Client talks to the Hypernative custom-agents API. It owns the shared
// bearer credential; the credential starts expired so the first call logs in.
type Client struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger

	// mu guards the whole check-and-refresh-and-read sequence, so two
	// concurrent callers cannot race a refresh and clobber a fresher token.
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
		expiresAt: time.Now().Add(-time.Second),
	}
}

// bearer returns a valid token, refreshing it first when expired.
func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().After(c.expiresAt) {
		if err := c.login(ctx); err != nil {
			return "", err
		}
	}
	return c.token, nil
}

func (c *Client) login(ctx context.Context) error {
	body, err := json.Marshal(loginRequest{Email: c.cfg.Username, Password: c.cfg.Password})
	if err != nil {
		return fmt.Errorf("%w: encode login request: %v", domain.ErrAuth, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%w: login status %d", domain.ErrAuth, response.StatusCode)
	}

	var payload loginResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return fmt.Errorf("%w: decode login response: %v", domain.ErrAuth, err)
	}
	if payload.Data.Token == "" {
		return fmt.Errorf("%w: login response carried no token", domain.ErrAuth)
	}

	c.token = payload.Data.Token
	c.expiresAt = time.Now().Add(c.cfg.TokenLifespan)
	c.logger.Info("hypernative token refreshed", zap.Time("expires_at", c.expiresAt))
	return nil
}

// RegisterAgent creates a custom agent mirroring one alert. A provider 5xx is
// reported as (nil, nil): the agent likely already exists or the provider is
// having a transient issue, and the alert creation flow must not abort on it.
func (c *Client) RegisterAgent(ctx context.Context, cooler string, loanID, thresholdDays int64, email, webhook *string) (*int64, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(buildAgentRequest(c.cfg.MonitoringContract, cooler, loanID, thresholdDays, email, webhook))
	if err != nil {
		return nil, fmt.Errorf("%w: encode agent request: %v", domain.ErrRegistration, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/custom-agents", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistration, err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+token)

	response, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistration, err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		var payload agentResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("%w: decode agent response: %v", domain.ErrRegistration, err)
		}
		c.logger.Info("hypernative agent created",
			zap.Int64("rule_id", payload.Data.ID),
			zap.String("cooler", cooler),
			zap.Int64("loan_id", loanID),
		)
		return &payload.Data.ID, nil
	case response.StatusCode >= 500:
		// The provider signals "agent already exists" (or a transient fault)
		// with a 5xx. Not a hard failure.
		c.logger.Warn("hypernative agent not created",
			zap.Int("status", response.StatusCode),
			zap.String("cooler", cooler),
			zap.Int64("loan_id", loanID),
		)
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: agent creation status %d", domain.ErrRegistration, response.StatusCode)
	}
}

// DeregisterAgent removes a custom agent. A non-2xx status is logged and
// swallowed, since the agent may already be gone on the provider side; only
// transport failures surface as errors.
func (c *Client) DeregisterAgent(ctx context.Context, ruleID int64) error {
	token, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/custom-agents/%d", c.cfg.BaseURL, ruleID)
	request, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRegistration, err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+token)

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRegistration, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		c.logger.Warn("hypernative agent deletion reported failure",
			zap.Int64("rule_id", ruleID),
			zap.Int("status", response.StatusCode),
		)
		return nil
	}

	c.logger.Info("hypernative agent deleted", zap.Int64("rule_id", ruleID))
	return nil
}

func buildAgentRequest(monitoringContract, cooler string, loanID, thresholdDays int64, email, webhook *string) agentRequest {
	thresholdSeconds := thresholdDays * secondsPerDay

	rule := agentRule{
		Chain:                "ethereum",
		Input:                []string{cooler, fmt.Sprintf("%d", loanID)},
		FuncSig:              timeToExpirySig,
		FileName:             "",
		Operands:             []string{fmt.Sprintf("%d", thresholdSeconds)},
		Operator:             "lt",
		RuleString:           fmt.Sprintf("Cooler (%s) Loan (id: %d) expires in less than %d days", cooler, loanID, thresholdDays),
		OutputIndex:          0,
		InputDataType:        []string{"address", "uint256"},
		OutputDataType:       []string{"uint256"},
		ContractAddress:      monitoringContract,
		ContractAddressAlias: "Cooler Monitoring",
		ContractFunctionObject: contractFunction{
			Name: "timeToExpiry",
			Type: "function",
			Inputs: []functionInput{
				{Name: "cooler_", Type: "address"},
				{Name: "id_", Type: "uint256"},
			},
			Outputs:         []functionOutput{{Name: "timeLeft", Type: "uint256"}},
			StateMutability: "view",
		},
	}

	var channels []channelConfiguration
	if email != nil {
		channels = append(channels, channelConfiguration{
			ChannelType:   "Email",
			Configuration: channelConfigPayload{Email: []string{*email}},
		})
	}
	if webhook != nil {
		channels = append(channels, channelConfiguration{
			ChannelType:   "Discord",
			Configuration: channelConfigPayload{URL: []string{*webhook}},
		})
	}

	return agentRequest{
		AgentType:               agentType,
		AgentName:               agentName,
		Severity:                "Medium",
		MuteDuration:            0,
		State:                   "disabled",
		Rule:                    rule,
		ChannelsConfigurations:  channels,
		RemindersConfigurations: []channelConfiguration{},
		Delay:                   50000,
	}
}
