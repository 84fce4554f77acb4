package mail

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
)

var _ model.Mailer = (*Log)(nil)

// Log writes emails to the logger instead of delivering them. Used in development.
type Log struct {
	logger *logger.Logger
}

func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(ctx context.Context, email model.Email) (model.DeliveryReceipt, error) {
	if err := ctx.Err(); err != nil {
		return model.DeliveryReceipt{}, err
	}

	receipt := model.DeliveryReceipt{MessageID: ulid.Make().String() + "@glowbook.local"}
	l.logger.Info("Log mailer: email captured",
		"to", email.To,
		"subject", email.Subject,
		"message_id", receipt.MessageID,
		"body", email.Text)

	return receipt, nil
}
