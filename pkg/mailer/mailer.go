// Package mailer delivers transactional e-mail through SendGrid.
package mailer

import (
	"context"
	"fmt"

	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a single-recipient e-mail.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a message or reports why it could not.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sendgridSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendgridMailer posts messages to the SendGrid v3 API.
type SendgridMailer struct {
	client sendgridSender
	from   *mail.Email
	logg   *logger.Logger
}

// New returns a SendGrid mailer, or a LogMailer when no API key is configured.
func New(cfg config.SendgridConfig, logg *logger.Logger) Mailer {
	if cfg.APIKey == "" {
		return &LogMailer{logg: logg}
	}
	return &SendgridMailer{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.DefaultFrom),
		logg:   logg,
	}
}

func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("recipient is required")
	}
	to := mail.NewEmail(msg.ToName, msg.To)
	payload := mail.NewSingleEmail(m.from, msg.Subject, to, msg.Text, msg.HTML)

	resp, err := m.client.SendWithContext(ctx, payload)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: unexpected status %d", resp.StatusCode)
	}

	if m.logg != nil {
		m.logg.Info(m.logg.WithFields(ctx, map[string]any{
			"subject":     msg.Subject,
			"status_code": resp.StatusCode,
		}), "mail.sent")
	}
	return nil
}

// LogMailer records that a message would have been sent. Bodies are never
// logged because they carry secrets such as reset tokens.
type LogMailer struct {
	logg *logger.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("recipient is required")
	}
	if m.logg != nil {
		m.logg.Warn(m.logg.WithField(ctx, "subject", msg.Subject), "mail.skipped_no_provider")
	}
	return nil
}
