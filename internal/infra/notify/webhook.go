package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const embedColor = 0xDB4B4B

type webhookPayload struct {
	Content  string         `json:"content"`
	Username string         `json:"username"`
	Embeds   []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []webhookField `json:"fields"`
	Footer      webhookFooter  `json:"footer"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookFooter struct {
	Text string `json:"text"`
}

// WebhookSender posts a discord-compatible embed to the alert's webhook URL.
type WebhookSender struct {
	client *http.Client
	logger *zap.Logger
}

func NewWebhookSender(timeout time.Duration, logger *zap.Logger) *WebhookSender {
	return &WebhookSender{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (s *WebhookSender) Send(ctx context.Context, url, cooler string, loanID int64, remaining time.Duration) error {
	payload := webhookPayload{
		Username: "Cooler Monitoring",
		Embeds: []webhookEmbed{{
			Title:       "New Alert!",
			Description: fmt.Sprintf("Cooler Contract: [%s](https://www.etherscan.io/address/%s) is about to expire!", cooler, cooler),
			Color:       embedColor,
			Fields: []webhookField{
				{Name: "Loan ID", Value: fmt.Sprintf("%d", loanID), Inline: true},
				{Name: "Time Left", Value: fmt.Sprintf("%s days", FormatDays(remaining)), Inline: true},
			},
			Footer: webhookFooter{Text: "Remember that you can check your current alerts by using the /list_alerts command."},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("webhook delivery status %d", response.StatusCode)
	}

	s.logger.Info("webhook alert delivered", zap.String("cooler", cooler), zap.Int64("loan_id", loanID))
	return nil
}

// FormatDays renders a remaining duration as fractional days, one decimal.
func FormatDays(remaining time.Duration) string {
	return decimal.NewFromFloat(remaining.Hours() / 24).Round(1).String()
}
