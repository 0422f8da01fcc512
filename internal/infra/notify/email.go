package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// EmailSender delivers alert emails over SMTP.
type EmailSender struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func NewEmailSender(host string, port int, username, password, from string, logger *zap.Logger) *EmailSender {
	return &EmailSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: logger,
	}
}

func (s *EmailSender) Send(ctx context.Context, to, cooler string, loanID int64, remaining time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", "New Cooler Alert!")
	message.SetBody("text/plain", fmt.Sprintf(
		"Cooler: %s is about to expire!\n- Loan ID: %d\n- Time Left: %s days\n\nhttps://www.etherscan.io/address/%s",
		cooler, loanID, FormatDays(remaining), cooler,
	))

	if err := s.dialer.DialAndSend(message); err != nil {
		return err
	}

	s.logger.Info("email alert delivered", zap.String("cooler", cooler), zap.Int64("loan_id", loanID))
	return nil
}
