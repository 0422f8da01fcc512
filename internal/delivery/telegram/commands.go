package telegram

import (
	"errors"
	"strconv"
	"strings"
)

const HelpText = `Commands:
/create_alert <cooler> <loan_id> <threshold_days> [webhook=<url>] [email=<address>]
/list_alerts - list your alerts
/delete_alerts <cooler> [loan_id]
/help - show this help

Notes:
- <cooler> is the 0x-prefixed address of the Cooler contract.
- <threshold_days> is how many days before expiry you want to be notified.
- At least one of webhook= or email= is required.
- You can hold at most 3 alerts at a time.
Example:
/create_alert 0x6f40DF8cC60F52125467838D15f9080748c2baea 0 5 webhook=https://discord.com/api/webhooks/1234/slack
`

var ErrInvalidArguments = errors.New("invalid arguments")

func ParseCreateAlertArgs(args string) (cooler string, loanID, thresholdDays int64, webhook, email *string, err error) {
	parts := strings.Fields(args)
	if len(parts) < 3 || len(parts) > 5 {
		return "", 0, 0, nil, nil, ErrInvalidArguments
	}

	cooler = parts[0]
	loanID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, 0, nil, nil, ErrInvalidArguments
	}
	thresholdDays, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", 0, 0, nil, nil, ErrInvalidArguments
	}

	for _, part := range parts[3:] {
		switch {
		case strings.HasPrefix(part, "webhook="):
			value := strings.TrimPrefix(part, "webhook=")
			if value == "" {
				return "", 0, 0, nil, nil, ErrInvalidArguments
			}
			webhook = &value
		case strings.HasPrefix(part, "email="):
			value := strings.TrimPrefix(part, "email=")
			if value == "" {
				return "", 0, 0, nil, nil, ErrInvalidArguments
			}
			email = &value
		default:
			return "", 0, 0, nil, nil, ErrInvalidArguments
		}
	}

	return cooler, loanID, thresholdDays, webhook, email, nil
}

func ParseDeleteAlertsArgs(args string) (cooler string, loanID *int64, err error) {
	parts := strings.Fields(args)
	if len(parts) < 1 || len(parts) > 2 {
		return "", nil, ErrInvalidArguments
	}

	cooler = parts[0]
	if len(parts) == 2 {
		value, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return "", nil, ErrInvalidArguments
		}
		loanID = &value
	}

	return cooler, loanID, nil
}
