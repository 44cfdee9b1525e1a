package email

import (
	"context"
	"fmt"

	"study-backend/internal/shared/config"
	"study-backend/internal/shared/telemetry"
)

// Sender delivers transactional mail (verification codes).
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New selects a sender from config. EMAIL_PROVIDER=log is the dev
// default and simply writes the mail to the telemetry stream.
func New(cfg config.Config) (Sender, error) {
	switch cfg.EmailProvider {
	case "smtp":
		return NewSMTPSender(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	case "resend":
		return NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	case "log":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.EmailProvider)
	}
}

// LogSender writes outgoing mail to the log instead of delivering it.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, body string) error {
	_ = ctx
	telemetry.Info("email.log_delivery", map[string]any{
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	return nil
}
