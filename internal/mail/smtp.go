// Package mail delivers verification emails.
package mail

import (
	"context"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"github.com/dtroode/glowbook-server/internal/config"
	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.Mailer = (*SMTP)(nil)

type dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTP sends mail through an SMTP relay.
type SMTP struct {
	client dialer
	from   string
	logger *logger.Logger
}

// NewSMTP builds a sender from the SMTP section of the configuration.
func NewSMTP(cfg config.Mail, logger *logger.Logger) (*SMTP, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTP{client: client, from: cfg.From, logger: logger}, nil
}

// Send delivers the email and returns the generated Message-ID.
func (s *SMTP) Send(ctx context.Context, email model.Email) (model.DeliveryReceipt, error) {
	msg, err := s.compose(email)
	if err != nil {
		return model.DeliveryReceipt{}, err
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("SMTP mailer: delivery failed",
			"to", email.To,
			"error", err.Error())
		return model.DeliveryReceipt{}, fmt.Errorf("failed to send email: %w", err)
	}

	receipt := model.DeliveryReceipt{MessageID: messageID(msg)}
	s.logger.Debug("SMTP mailer: email sent",
		"to", email.To,
		"message_id", receipt.MessageID)

	return receipt, nil
}

func (s *SMTP) compose(email model.Email) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetMessageID()
	msg.SetDate()

	msg.SetBodyString(gomail.TypeTextPlain, email.Text)
	if email.HTML != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, email.HTML)
	}

	return msg, nil
}

func messageID(msg *gomail.Msg) string {
	ids := msg.GetGenHeader(gomail.HeaderMessageID)
	if len(ids) == 0 {
		return ""
	}
	return strings.Trim(ids[0], "<>")
}
