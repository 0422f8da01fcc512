package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/OlympusDAO/cooler-alerts/internal/domain"
	"github.com/OlympusDAO/cooler-alerts/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handlers struct {
	alertUC *usecase.AlertUsecase
	logger  *zap.Logger
}

func NewHandlers(alertUC *usecase.AlertUsecase, logger *zap.Logger) *Handlers {
	return &Handlers{alertUC: alertUC, logger: logger}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
		return
	}
}

func (h *Handlers) handleCommand(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", userID),
		zap.String("command", command),
		zap.String("args", args),
	)

	switch command {
	case "start", "help":
		h.reply(api, chatID, HelpText)
	case "create_alert":
		cooler, loanID, thresholdDays, webhook, email, err := ParseCreateAlertArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /create_alert <cooler> <loan_id> <threshold_days> [webhook=<url>] [email=<address>]")
			return
		}
		alert, err := h.alertUC.CreateAlert(ctx, userID, cooler, loanID, thresholdDays, webhook, email)
		if err != nil {
			h.logger.Warn("create_alert failed", zap.Int64("user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.alertErrorMessage(err))
			return
		}
		h.logger.Info("create_alert complete", zap.Int64("user_id", userID), zap.Int64("alert_id", alert.ID))
		h.reply(api, chatID, fmt.Sprintf(
			"Alert #%d created for loan %d of cooler %s. You will be notified %d days before expiry (webhook: %s, email: %s).",
			alert.ID, alert.LoanID, alert.Cooler, alert.ThresholdDays,
			channelMark(alert.WebhookURL), channelMark(alert.Email),
		))
	case "list_alerts":
		alerts, err := h.alertUC.ListAlerts(ctx, userID)
		if err != nil {
			h.logger.Warn("list_alerts failed", zap.Int64("user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.alertErrorMessage(err))
			return
		}
		if len(alerts) == 0 {
			h.reply(api, chatID, "No alerts yet. Use /create_alert to create one.")
			return
		}
		h.reply(api, chatID, formatAlertList(alerts))
	case "delete_alerts":
		cooler, loanID, err := ParseDeleteAlertsArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /delete_alerts <cooler> [loan_id]")
			return
		}
		deleted, err := h.alertUC.DeleteAlerts(ctx, userID, cooler, loanID)
		if err != nil {
			h.logger.Warn("delete_alerts failed", zap.Int64("user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.alertErrorMessage(err))
			return
		}
		h.logger.Info("delete_alerts complete", zap.Int64("user_id", userID), zap.Int("count", deleted))
		h.reply(api, chatID, fmt.Sprintf("Deleted %d alert(s) for cooler %s.", deleted, cooler))
	default:
		h.reply(api, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) alertErrorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidCooler):
		return "Invalid cooler address. Use the 0x-prefixed 42-character contract address."
	case errors.Is(err, usecase.ErrInvalidThreshold):
		return "Invalid threshold. Use a non-negative number of days."
	case errors.Is(err, usecase.ErrNoChannel):
		return "Configure at least one delivery channel: webhook=<url> or email=<address>."
	case errors.Is(err, usecase.ErrTooManyAlerts):
		return fmt.Sprintf("You already hold %d alerts. Delete one before creating another.", domain.MaxAlertsPerUser)
	case errors.Is(err, usecase.ErrAlertNotFound):
		return "No alerts found for that cooler."
	case errors.Is(err, domain.ErrAuth):
		return "The monitoring provider rejected our credentials. Please try again later."
	case errors.Is(err, domain.ErrRegistration):
		return "Could not reach the monitoring provider. Please try again later."
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "Something went wrong. Please try again."
}

func formatAlertList(alerts []domain.Alert) string {
	var builder strings.Builder
	builder.WriteString("Your alerts:\n")
	for _, alert := range alerts {
		status := "triggered"
		if alert.Active {
			status = "active"
		}
		builder.WriteString(fmt.Sprintf(
			"#%d [%s] cooler %s loan %d, %d days ahead (webhook: %s, email: %s)\n",
			alert.ID, status, alert.Cooler, alert.LoanID, alert.ThresholdDays,
			channelMark(alert.WebhookURL), channelMark(alert.Email),
		))
	}
	return builder.String()
}

func channelMark(channel *string) string {
	if channel != nil {
		return "yes"
	}
	return "no"
}

func (h *Handlers) reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
